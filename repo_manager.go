package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes the principal repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Admins() Admins
	Students() Students
}

type mngr struct {
	db       *bun.DB
	admins   Admins
	students Students
}

// NewRepositoryManager wires the principal stores over db
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		admins:   NewAdminsRepository(db),
		students: NewStudentsRepository(db),
	}
}

// Models returns the principal models for schema creation
func Models() []any {
	return []any{
		(*Admin)(nil),
		(*Student)(nil),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database")
	}

	if m.admins == nil {
		return errors.New("repository admins should be initialized")
	}

	if m.students == nil {
		return errors.New("repository students should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Admins() Admins {
	return m.admins
}

func (m mngr) Students() Students {
	return m.students
}
