package registry

import (
	"context"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// Results stores exam results
type Results interface {
	repository.Repository[*Result]
	ListNewest(ctx context.Context) ([]*Result, error)
	ListByStudent(ctx context.Context, studentID int64, publishedOnly bool) ([]*Result, error)
}

// AdmitCards stores admit cards
type AdmitCards interface {
	repository.Repository[*AdmitCard]
	ListNewest(ctx context.Context) ([]*AdmitCard, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*AdmitCard, error)
}

// Memberships stores membership applications
type Memberships interface {
	repository.Repository[*Membership]
	ListNewest(ctx context.Context) ([]*Membership, error)
	GetByUser(ctx context.Context, userID int64) (*Membership, error)
}

// MembershipCards stores issued membership cards
type MembershipCards interface {
	repository.Repository[*MembershipCard]
	ListNewest(ctx context.Context) ([]*MembershipCard, error)
	GetByMembership(ctx context.Context, membershipID int64) (*MembershipCard, error)
}

// MenuItems stores admin navigation entries
type MenuItems interface {
	repository.Repository[*MenuItem]
	ListOrdered(ctx context.Context, activeOnly bool) ([]*MenuItem, error)
}

// Settings stores keyed admin settings
type Settings interface {
	repository.Repository[*Setting]
	ListOrdered(ctx context.Context) ([]*Setting, error)
	GetByKey(ctx context.Context, key string) (*Setting, error)
	GetByKeyTx(ctx context.Context, tx bun.IDB, key string) (*Setting, error)
}

// PaymentConfigs stores payment collection details
type PaymentConfigs interface {
	repository.Repository[*PaymentConfig]
	ListOrdered(ctx context.Context) ([]*PaymentConfig, error)
	ListActiveByType(ctx context.Context, paymentType PaymentType) ([]*PaymentConfig, error)
}

// ContentSections stores CMS blocks
type ContentSections interface {
	repository.Repository[*ContentSection]
	ListOrdered(ctx context.Context) ([]*ContentSection, error)
	ListActiveByKey(ctx context.Context, key SectionKey) ([]*ContentSection, error)
}

// Volunteers stores volunteer applications
type Volunteers interface {
	repository.Repository[*VolunteerApplication]
	ListNewest(ctx context.Context) ([]*VolunteerApplication, error)
}

// FeeStructures stores published fee levels
type FeeStructures interface {
	repository.Repository[*FeeStructure]
	ListByLevel(ctx context.Context, activeOnly bool) ([]*FeeStructure, error)
}

// Pages stores Markdown pages
type Pages interface {
	repository.Repository[*Page]
	ListOrdered(ctx context.Context) ([]*Page, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Page, error)
}

// Inquiries stores contact form messages
type Inquiries interface {
	repository.Repository[*ContactInquiry]
	ListNewest(ctx context.Context) ([]*ContactInquiry, error)
}

func newestFirst(column string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.? DESC, ?TableAlias.id DESC", bun.Ident(column))
	}
}

func ascending(columns ...string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		for _, column := range columns {
			q = q.OrderExpr("?TableAlias.? ASC", bun.Ident(column))
		}
		return q.OrderExpr("?TableAlias.id ASC")
	}
}

func whereEq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

type results struct {
	repository.Repository[*Result]
}

func (r *results) ListNewest(ctx context.Context) ([]*Result, error) {
	return r.List(ctx, newestFirst("created_at"))
}

func (r *results) ListByStudent(ctx context.Context, studentID int64, publishedOnly bool) ([]*Result, error) {
	criteria := []repository.SelectCriteria{whereEq("student_id", studentID), newestFirst("created_at")}
	if publishedOnly {
		criteria = append(criteria, whereEq("is_published", true))
	}
	return r.List(ctx, criteria...)
}

type admitCards struct {
	repository.Repository[*AdmitCard]
}

func (r *admitCards) ListNewest(ctx context.Context) ([]*AdmitCard, error) {
	return r.List(ctx, newestFirst("uploaded_at"))
}

// ListByStudent returns the student's admit cards, latest upload first
func (r *admitCards) ListByStudent(ctx context.Context, studentID int64) ([]*AdmitCard, error) {
	return r.List(ctx, whereEq("student_id", studentID), newestFirst("uploaded_at"))
}

type memberships struct {
	repository.Repository[*Membership]
}

func (r *memberships) ListNewest(ctx context.Context) ([]*Membership, error) {
	return r.List(ctx, newestFirst("created_at"))
}

func (r *memberships) GetByUser(ctx context.Context, userID int64) (*Membership, error) {
	return r.GetBy(ctx, "user_id", userID)
}

type membershipCards struct {
	repository.Repository[*MembershipCard]
}

func (r *membershipCards) ListNewest(ctx context.Context) ([]*MembershipCard, error) {
	return r.List(ctx, newestFirst("created_at"))
}

func (r *membershipCards) GetByMembership(ctx context.Context, membershipID int64) (*MembershipCard, error) {
	return r.GetBy(ctx, "membership_id", membershipID)
}

type menuItems struct {
	repository.Repository[*MenuItem]
}

func (r *menuItems) ListOrdered(ctx context.Context, activeOnly bool) ([]*MenuItem, error) {
	criteria := []repository.SelectCriteria{ascending("order")}
	if activeOnly {
		criteria = append(criteria, whereEq("is_active", true))
	}
	return r.List(ctx, criteria...)
}

type settings struct {
	repository.Repository[*Setting]
}

func (r *settings) ListOrdered(ctx context.Context) ([]*Setting, error) {
	return r.List(ctx, ascending("category", "key"))
}

func (r *settings) GetByKey(ctx context.Context, key string) (*Setting, error) {
	return r.GetByKeyTx(ctx, r.DB(), key)
}

func (r *settings) GetByKeyTx(ctx context.Context, tx bun.IDB, key string) (*Setting, error) {
	return r.GetByTx(ctx, tx, "key", key)
}

type paymentConfigs struct {
	repository.Repository[*PaymentConfig]
}

func (r *paymentConfigs) ListOrdered(ctx context.Context) ([]*PaymentConfig, error) {
	return r.List(ctx, ascending("type", "order"))
}

func (r *paymentConfigs) ListActiveByType(ctx context.Context, paymentType PaymentType) ([]*PaymentConfig, error) {
	return r.List(ctx,
		whereEq("type", paymentType),
		whereEq("is_active", true),
		ascending("order"),
	)
}

type contentSections struct {
	repository.Repository[*ContentSection]
}

func (r *contentSections) ListOrdered(ctx context.Context) ([]*ContentSection, error) {
	return r.List(ctx, ascending("section_key", "order"))
}

func (r *contentSections) ListActiveByKey(ctx context.Context, key SectionKey) ([]*ContentSection, error) {
	return r.List(ctx,
		whereEq("section_key", key),
		whereEq("is_active", true),
		ascending("order"),
	)
}

type volunteers struct {
	repository.Repository[*VolunteerApplication]
}

func (r *volunteers) ListNewest(ctx context.Context) ([]*VolunteerApplication, error) {
	return r.List(ctx, newestFirst("created_at"))
}

type feeStructures struct {
	repository.Repository[*FeeStructure]
}

func (r *feeStructures) ListByLevel(ctx context.Context, activeOnly bool) ([]*FeeStructure, error) {
	criteria := []repository.SelectCriteria{ascending("level")}
	if activeOnly {
		criteria = append(criteria, whereEq("is_active", true))
	}
	return r.List(ctx, criteria...)
}

type pages struct {
	repository.Repository[*Page]
}

func (r *pages) ListOrdered(ctx context.Context) ([]*Page, error) {
	return r.List(ctx, ascending("order"))
}

// GetPublishedBySlug treats an unpublished page as missing
func (r *pages) GetPublishedBySlug(ctx context.Context, slug string) (*Page, error) {
	return r.GetByTx(ctx, r.DB(), "slug", slug, whereEq("is_published", true))
}

type inquiries struct {
	repository.Repository[*ContactInquiry]
}

func (r *inquiries) ListNewest(ctx context.Context) ([]*ContactInquiry, error) {
	return r.List(ctx, newestFirst("created_at"))
}
