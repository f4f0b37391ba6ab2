package registry

import (
	"context"
	"time"

	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/repository"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const writeTimeout = 10 * time.Second

// Registrar runs the registry writes that derive numbers or stamps from
// existing rows
type Registrar struct {
	repo   Manager
	prefix string
	now    func() time.Time
}

// NewRegistrar returns a Registrar numbering memberships with prefix
func NewRegistrar(repo Manager, prefix string) *Registrar {
	if prefix == "" {
		prefix = enrollment.DefaultRegistrationPrefix
	}
	return &Registrar{repo: repo, prefix: prefix, now: time.Now}
}

// WithClock replaces the time source used for card years and approvals
func (r *Registrar) WithClock(now func() time.Time) *Registrar {
	if now != nil {
		r.now = now
	}
	return r
}

// CreateMembership assigns the next membership number and stores the
// application. Two concurrent calls may compute the same number, the
// unique index rejects the second one.
func (r *Registrar) CreateMembership(ctx context.Context, record *Membership) (*Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := r.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		total, err := r.repo.Memberships().CountTx(ctx, tx)
		if err != nil {
			return err
		}

		record.ID = 0
		record.MembershipNumber = enrollment.MembershipNumber(r.prefix, total)
		if record.MembershipType == "" {
			record.MembershipType = "regular"
		}

		if record, err = r.repo.Memberships().CreateTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateMembershipCard assigns the next card number of the current year
func (r *Registrar) CreateMembershipCard(ctx context.Context, record *MembershipCard) (*MembershipCard, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	year := r.now().Year()
	err := r.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := r.repo.MembershipCards().CountPrefixTx(ctx, tx, "card_number", enrollment.CardPrefix(year))
		if err != nil {
			return err
		}

		record.ID = 0
		record.CardNumber = enrollment.CardNumber(year, existing)
		if record.PaymentStatus == "" {
			record.PaymentStatus = PaymentPending
		}

		if record, err = r.repo.MembershipCards().CreateTx(ctx, tx, record); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create membership card")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateMembershipCard patches a card. Moving it to approved stamps the
// approving admin, the approval time and marks the card generated.
func (r *Registrar) UpdateMembershipCard(ctx context.Context, id int64, patch map[string]any, approverID int64) (*MembershipCard, error) {
	if status, ok := patch["paymentStatus"].(string); ok && PaymentStatus(status) == PaymentApproved && approverID > 0 {
		patch["approvedBy"] = approverID
		patch["approvedAt"] = r.now()
		patch["isGenerated"] = true
	}
	return r.repo.MembershipCards().Patch(ctx, id, patch)
}

// UpsertSetting patches the setting stored under key, creating it when
// missing. A new setting defaults its value to empty and its label to key.
func (r *Registrar) UpsertSetting(ctx context.Context, key string, patch map[string]any) (*Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var out *Setting
	err := r.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := r.repo.Settings().GetByKeyTx(ctx, tx, key)
		if err == nil {
			out, err = r.repo.Settings().PatchTx(ctx, tx, existing.ID, patch)
			return err
		}
		if !goerrors.IsNotFound(err) {
			return err
		}

		record := &Setting{Key: key, Type: SettingBoolean, Category: "general"}
		if err := repository.ApplyPatch(record, patch); err != nil {
			return err
		}
		record.Key = key
		if record.Label == "" {
			record.Label = key
		}

		out, err = r.repo.Settings().CreateTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
