package enrollment

import (
	"context"
	"time"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// Admins is the admin principal store
type Admins interface {
	repository.Repository[*Admin]

	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Admin, error)
}

// Students is the student principal store
type Students interface {
	repository.Repository[*Student]

	GetByEmail(ctx context.Context, email string) (*Student, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error)
	CountByRegistrationPrefixTx(ctx context.Context, tx bun.IDB, prefix string) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountFeePaid(ctx context.Context) (int, error)
	CountActive(ctx context.Context) (int, error)
	ListNewest(ctx context.Context) ([]*Student, error)
	ListFeePaid(ctx context.Context) ([]*Student, error)
}

type admins struct {
	repository.Repository[*Admin]
}

var _ Admins = (*admins)(nil)

// NewAdminsRepository creates the admin store
func NewAdminsRepository(db *bun.DB) Admins {
	return &admins{
		Repository: repository.NewRepository(db, repository.ModelHandlers[*Admin]{
			Entity:    "Admin",
			NewRecord: func() *Admin { return &Admin{} },
			Immutable: []string{"email"},
		}),
	}
}

// GetByEmail matches the email exactly, case included
func (a *admins) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	return a.GetByEmailTx(ctx, a.DB(), email)
}

func (a *admins) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Admin, error) {
	return a.GetByTx(ctx, tx, "email", email)
}

type students struct {
	repository.Repository[*Student]
}

var _ Students = (*students)(nil)

// NewStudentsRepository creates the student store
func NewStudentsRepository(db *bun.DB) Students {
	return &students{
		Repository: repository.NewRepository(db, repository.ModelHandlers[*Student]{
			Entity:    "Student",
			NewRecord: func() *Student { return &Student{} },
			Immutable: []string{"registrationNumber"},
		}),
	}
}

// GetByEmail matches the email exactly, case included
func (s *students) GetByEmail(ctx context.Context, email string) (*Student, error) {
	return s.GetByEmailTx(ctx, s.DB(), email)
}

func (s *students) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Student, error) {
	return s.GetByTx(ctx, tx, "email", email)
}

func (s *students) GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error) {
	return s.GetBy(ctx, "roll_number", rollNumber)
}

func (s *students) CountByRegistrationPrefixTx(ctx context.Context, tx bun.IDB, prefix string) (int, error) {
	return s.CountPrefixTx(ctx, tx, "registration_number", prefix)
}

func (s *students) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return s.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.created_at >= ?", since)
	})
}

func (s *students) CountFeePaid(ctx context.Context) (int, error) {
	return s.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.fee_paid = ?", true)
	})
}

func (s *students) CountActive(ctx context.Context) (int, error) {
	return s.Count(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_active = ?", true)
	})
}

func (s *students) ListNewest(ctx context.Context) ([]*Student, error) {
	return s.List(ctx, newestFirst)
}

func (s *students) ListFeePaid(ctx context.Context) ([]*Student, error) {
	return s.List(ctx, newestFirst, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.fee_paid = ?", true)
	})
}

func newestFirst(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.id DESC")
}
