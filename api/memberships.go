package api

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/registry"
	goerrors "github.com/goliatone/go-errors"
)

// MembershipRequest is a public membership application
type MembershipRequest struct {
	UserID         *int64 `json:"userId"`
	MemberName     string `json:"memberName"`
	MemberEmail    string `json:"memberEmail"`
	MemberPhone    string `json:"memberPhone"`
	MemberAddress  string `json:"memberAddress"`
	MembershipType string `json:"membershipType"`
	QRCodeURL      string `json:"qrCodeUrl"`
	UpiID          string `json:"upiId"`
	ValidFrom      string `json:"validFrom"`
	ValidUntil     string `json:"validUntil"`
}

// Validate will run validation rules
func (r MembershipRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MemberName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.MemberPhone, validation.Required, enrollment.PhoneRule(enrollment.DefaultPhoneRegion)),
		validation.Field(&r.MemberEmail, is.Email),
	)
}

// MembershipCardRequest issues a card for a membership
type MembershipCardRequest struct {
	MembershipID  int64                  `json:"membershipId"`
	MemberName    string                 `json:"memberName"`
	MemberPhoto   string                 `json:"memberPhoto"`
	ValidFrom     string                 `json:"validFrom"`
	ValidUntil    string                 `json:"validUntil"`
	CardImageURL  string                 `json:"cardImageUrl"`
	PaymentStatus registry.PaymentStatus `json:"paymentStatus"`
	PaymentAmount *int                   `json:"paymentAmount"`
}

// Validate will run validation rules
func (r MembershipCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MembershipID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.MemberName, validation.Required),
		validation.Field(&r.ValidFrom, validation.Required),
		validation.Field(&r.ValidUntil, validation.Required),
		validation.Field(&r.PaymentStatus, validation.In(
			registry.PaymentPending, registry.PaymentPaid, registry.PaymentApproved,
		)),
	)
}

func (s *Server) ListMemberships(c *fiber.Ctx) error {
	records, err := s.Registry.Memberships().ListNewest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateMembership(c *fiber.Ctx) error {
	payload := new(MembershipRequest)
	if err := bind(c, payload, "invalid membership"); err != nil {
		return err
	}

	record, err := s.Registrar.CreateMembership(c.UserContext(), &registry.Membership{
		UserID:         payload.UserID,
		MemberName:     payload.MemberName,
		MemberEmail:    payload.MemberEmail,
		MemberPhone:    payload.MemberPhone,
		MemberAddress:  payload.MemberAddress,
		MembershipType: payload.MembershipType,
		QRCodeURL:      payload.QRCodeURL,
		UpiID:          payload.UpiID,
		IsActive:       true,
		ValidFrom:      payload.ValidFrom,
		ValidUntil:     payload.ValidUntil,
	})
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdateMembership(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	record, err := s.Registry.Memberships().Patch(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (s *Server) ListMembershipCards(c *fiber.Ctx) error {
	records, err := s.Registry.MembershipCards().ListNewest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateMembershipCard(c *fiber.Ctx) error {
	payload := new(MembershipCardRequest)
	if err := bind(c, payload, "invalid membership card"); err != nil {
		return err
	}

	record, err := s.Registrar.CreateMembershipCard(c.UserContext(), &registry.MembershipCard{
		MembershipID:  payload.MembershipID,
		MemberName:    payload.MemberName,
		MemberPhoto:   payload.MemberPhoto,
		ValidFrom:     payload.ValidFrom,
		ValidUntil:    payload.ValidUntil,
		CardImageURL:  payload.CardImageURL,
		PaymentStatus: payload.PaymentStatus,
		PaymentAmount: payload.PaymentAmount,
	})
	if err != nil {
		return err
	}
	return created(c, record)
}

// UpdateMembershipCard stamps the calling admin when approving a card
func (s *Server) UpdateMembershipCard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	approver, _ := strconv.ParseInt(s.claims(c).UserID(), 10, 64)
	record, err := s.Registrar.UpdateMembershipCard(c.UserContext(), id, patch, approver)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// MyMembershipCard returns null when the membership has no card yet
func (s *Server) MyMembershipCard(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(s.claims(c).UserID(), 10, 64)
	if err != nil {
		return enrollment.ErrForbidden
	}

	ctx := c.UserContext()
	membership, err := s.Registry.Memberships().GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	card, err := s.Registry.MembershipCards().GetByMembership(ctx, membership.ID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return c.JSON(nil)
		}
		return err
	}
	return c.JSON(card)
}
