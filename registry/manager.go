package registry

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-enrollment/repository"
	"github.com/uptrace/bun"
)

// Manager exposes the business entity stores
type Manager interface {
	repository.Validator
	repository.TransactionManager
	Results() Results
	AdmitCards() AdmitCards
	Memberships() Memberships
	MembershipCards() MembershipCards
	MenuItems() MenuItems
	Settings() Settings
	PaymentConfigs() PaymentConfigs
	ContentSections() ContentSections
	Volunteers() Volunteers
	FeeStructures() FeeStructures
	Pages() Pages
	Inquiries() Inquiries
}

type mngr struct {
	db              *bun.DB
	results         Results
	admitCards      AdmitCards
	memberships     Memberships
	membershipCards MembershipCards
	menuItems       MenuItems
	settings        Settings
	paymentConfigs  PaymentConfigs
	contentSections ContentSections
	volunteers      Volunteers
	feeStructures   FeeStructures
	pages           Pages
	inquiries       Inquiries
}

func newRepo[T any](db *bun.DB, entity string, newRecord func() T, immutable ...string) repository.Repository[T] {
	return repository.NewRepository(db, repository.ModelHandlers[T]{
		Entity:    entity,
		NewRecord: newRecord,
		Immutable: immutable,
	})
}

// NewManager wires every registry store over db
func NewManager(db *bun.DB) Manager {
	return &mngr{
		db:              db,
		results:         &results{newRepo(db, "Result", func() *Result { return &Result{} })},
		admitCards:      &admitCards{newRepo(db, "Admit card", func() *AdmitCard { return &AdmitCard{} }, "uploadedAt")},
		memberships:     &memberships{newRepo(db, "Membership", func() *Membership { return &Membership{} }, "membershipNumber")},
		membershipCards: &membershipCards{newRepo(db, "Membership card", func() *MembershipCard { return &MembershipCard{} }, "cardNumber")},
		menuItems:       &menuItems{newRepo(db, "Menu item", func() *MenuItem { return &MenuItem{} })},
		settings:        &settings{newRepo(db, "Setting", func() *Setting { return &Setting{} }, "key")},
		paymentConfigs:  &paymentConfigs{newRepo(db, "Payment config", func() *PaymentConfig { return &PaymentConfig{} })},
		contentSections: &contentSections{newRepo(db, "Content section", func() *ContentSection { return &ContentSection{} })},
		volunteers:      &volunteers{newRepo(db, "Volunteer application", func() *VolunteerApplication { return &VolunteerApplication{} })},
		feeStructures:   &feeStructures{newRepo(db, "Fee structure", func() *FeeStructure { return &FeeStructure{} })},
		pages:           &pages{newRepo(db, "Page", func() *Page { return &Page{} })},
		inquiries:       &inquiries{newRepo(db, "Inquiry", func() *ContactInquiry { return &ContactInquiry{} })},
	}
}

func (m *mngr) Validate() error {
	if m.db == nil {
		return errors.New("registry manager requires a database")
	}
	return nil
}

func (m *mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Results() Results                 { return m.results }
func (m *mngr) AdmitCards() AdmitCards           { return m.admitCards }
func (m *mngr) Memberships() Memberships         { return m.memberships }
func (m *mngr) MembershipCards() MembershipCards { return m.membershipCards }
func (m *mngr) MenuItems() MenuItems             { return m.menuItems }
func (m *mngr) Settings() Settings               { return m.settings }
func (m *mngr) PaymentConfigs() PaymentConfigs   { return m.paymentConfigs }
func (m *mngr) ContentSections() ContentSections { return m.contentSections }
func (m *mngr) Volunteers() Volunteers           { return m.volunteers }
func (m *mngr) FeeStructures() FeeStructures     { return m.feeStructures }
func (m *mngr) Pages() Pages                     { return m.pages }
func (m *mngr) Inquiries() Inquiries             { return m.inquiries }
