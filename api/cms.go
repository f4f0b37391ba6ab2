package api

import (
	"bytes"
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/registry"
	"github.com/goliatone/go-enrollment/repository"
	goerrors "github.com/goliatone/go-errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PublicPage is a published page with its Markdown rendered to HTML
type PublicPage struct {
	*registry.Page
	ContentHTML string `json:"contentHtml"`
}

func paymentTypes() []any {
	return []any{registry.PaymentDonation, registry.PaymentFee, registry.PaymentMembership, registry.PaymentGeneral}
}

func settingTypes() []any {
	return []any{registry.SettingBoolean, registry.SettingString, registry.SettingNumber, registry.SettingJSON}
}

func sectionKeys() []any {
	keys := registry.SectionKeys()
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, k)
	}
	return out
}

// decodeRecord parses the body into record, which carries its defaults,
// and clears the server managed columns
func decodeRecord(c *fiber.Ctx, record any, timestamps *repository.Timestamps, id *int64) error {
	if err := c.BodyParser(record); err != nil {
		return badRequest("invalid request body")
	}
	*id = 0
	if timestamps != nil {
		*timestamps = repository.Timestamps{}
	}
	return nil
}

func validated(err error, message string) error {
	if err != nil {
		return goerrors.FromOzzoValidation(err, message)
	}
	return nil
}

func (s *Server) ListActiveMenu(c *fiber.Ctx) error {
	records, err := s.Registry.MenuItems().ListOrdered(c.UserContext(), true)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) ListMenu(c *fiber.Ctx) error {
	records, err := s.Registry.MenuItems().ListOrdered(c.UserContext(), false)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateMenuItem(c *fiber.Ctx) error {
	record := &registry.MenuItem{IsActive: true, Group: "main"}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.Title, validation.Required),
		validation.Field(&record.Path, validation.Required),
		validation.Field(&record.IconKey, validation.Required),
	)
	if err := validated(err, "invalid menu item"); err != nil {
		return err
	}

	record, err = s.Registry.MenuItems().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdateMenuItem(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.MenuItems().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) DeleteMenuItem(c *fiber.Ctx) error {
	return s.delete(c, s.Registry.MenuItems().Delete)
}

func (s *Server) ListSettings(c *fiber.Ctx) error {
	records, err := s.Registry.Settings().ListOrdered(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) GetSetting(c *fiber.Ctx) error {
	record, err := s.Registry.Settings().GetByKey(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// UpsertSetting creates the setting when the key is unknown
func (s *Server) UpsertSetting(c *fiber.Ctx) error {
	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	record, err := s.Registrar.UpsertSetting(c.UserContext(), c.Params("key"), patch)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (s *Server) CreateSetting(c *fiber.Ctx) error {
	record := &registry.Setting{Type: registry.SettingBoolean, Category: "general"}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.Key, validation.Required),
		validation.Field(&record.Label, validation.Required),
		validation.Field(&record.Type, validation.In(settingTypes()...)),
	)
	if err := validated(err, "invalid setting"); err != nil {
		return err
	}

	record, err = s.Registry.Settings().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) ListPaymentConfigs(c *fiber.Ctx) error {
	records, err := s.Registry.PaymentConfigs().ListOrdered(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) PublicPaymentConfigs(c *fiber.Ctx) error {
	records, err := s.Registry.PaymentConfigs().ListActiveByType(c.UserContext(), registry.PaymentType(c.Params("type")))
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreatePaymentConfig(c *fiber.Ctx) error {
	record := &registry.PaymentConfig{IsActive: true}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.Type, validation.Required, validation.In(paymentTypes()...)),
		validation.Field(&record.Name, validation.Required),
	)
	if err := validated(err, "invalid payment config"); err != nil {
		return err
	}

	record, err = s.Registry.PaymentConfigs().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdatePaymentConfig(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.PaymentConfigs().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) DeletePaymentConfig(c *fiber.Ctx) error {
	return s.delete(c, s.Registry.PaymentConfigs().Delete)
}

func (s *Server) ListContentSections(c *fiber.Ctx) error {
	records, err := s.Registry.ContentSections().ListOrdered(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) PublicContent(c *fiber.Ctx) error {
	key := registry.SectionKey(c.Params("sectionKey"))
	if !key.IsValid() {
		return badRequest("unknown section key")
	}

	records, err := s.Registry.ContentSections().ListActiveByKey(c.UserContext(), key)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateContentSection(c *fiber.Ctx) error {
	record := &registry.ContentSection{IsActive: true}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.SectionKey, validation.Required, validation.In(sectionKeys()...)),
		validation.Field(&record.Title, validation.Required),
		validation.Field(&record.Content, validation.Required),
	)
	if err := validated(err, "invalid content section"); err != nil {
		return err
	}

	record, err = s.Registry.ContentSections().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdateContentSection(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		if key, ok := patch["sectionKey"].(string); ok && !registry.SectionKey(key).IsValid() {
			return nil, badRequest("unknown section key")
		}
		return s.Registry.ContentSections().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) DeleteContentSection(c *fiber.Ctx) error {
	return s.delete(c, s.Registry.ContentSections().Delete)
}

func (s *Server) ListVolunteers(c *fiber.Ctx) error {
	records, err := s.Registry.Volunteers().ListNewest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// ApplyVolunteer stores a public application as pending
func (s *Server) ApplyVolunteer(c *fiber.Ctx) error {
	record := &registry.VolunteerApplication{}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}
	record.Status = registry.StatusPending
	record.AdminNotes = ""

	err := validation.ValidateStruct(record,
		validation.Field(&record.FullName, validation.Required),
		validation.Field(&record.Email, validation.Required, is.Email),
		validation.Field(&record.Phone, validation.Required, enrollment.PhoneRule(enrollment.DefaultPhoneRegion)),
	)
	if err := validated(err, "invalid volunteer application"); err != nil {
		return err
	}

	if _, err := s.Registry.Volunteers().Create(c.UserContext(), record); err != nil {
		return err
	}
	return acknowledged(c, "Application submitted successfully")
}

func (s *Server) UpdateVolunteer(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.Volunteers().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) ListFeeStructures(c *fiber.Ctx) error {
	records, err := s.Registry.FeeStructures().ListByLevel(c.UserContext(), false)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) PublicFeeStructures(c *fiber.Ctx) error {
	records, err := s.Registry.FeeStructures().ListByLevel(c.UserContext(), true)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateFeeStructure(c *fiber.Ctx) error {
	record := &registry.FeeStructure{IsActive: true}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	levels := make([]any, 0, 4)
	for _, level := range enrollment.FeeLevels() {
		levels = append(levels, string(level))
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.Name, validation.Required),
		validation.Field(&record.Level, validation.Required, validation.In(levels...)),
		validation.Field(&record.Amount, validation.Required, validation.Min(1)),
	)
	if err := validated(err, "invalid fee structure"); err != nil {
		return err
	}

	record, err = s.Registry.FeeStructures().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdateFeeStructure(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.FeeStructures().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) ListInquiries(c *fiber.Ctx) error {
	records, err := s.Registry.Inquiries().ListNewest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// Contact stores a public inquiry without echoing it back
func (s *Server) Contact(c *fiber.Ctx) error {
	record := &registry.ContactInquiry{}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}
	record.Status = registry.InquiryPending
	record.AdminNotes = ""

	err := validation.ValidateStruct(record,
		validation.Field(&record.Name, validation.Required),
		validation.Field(&record.Email, validation.Required, is.Email),
		validation.Field(&record.Subject, validation.Required),
		validation.Field(&record.Message, validation.Required),
		validation.Field(&record.Phone, enrollment.PhoneRule(enrollment.DefaultPhoneRegion)),
	)
	if err := validated(err, "invalid contact inquiry"); err != nil {
		return err
	}

	if _, err := s.Registry.Inquiries().Create(c.UserContext(), record); err != nil {
		return err
	}
	return acknowledged(c, "Message sent successfully")
}

func (s *Server) UpdateInquiry(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.Inquiries().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) ListPages(c *fiber.Ctx) error {
	records, err := s.Registry.Pages().ListOrdered(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// PublicPage answers 404 for unpublished pages
func (s *Server) PublicPage(c *fiber.Ctx) error {
	page, err := s.Registry.Pages().GetPublishedBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := s.Markdown.Convert([]byte(page.Content), &buf); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render page")
	}

	return c.JSON(PublicPage{Page: page, ContentHTML: buf.String()})
}

func (s *Server) CreatePage(c *fiber.Ctx) error {
	record := &registry.Page{}
	if err := decodeRecord(c, record, &record.Timestamps, &record.ID); err != nil {
		return err
	}

	err := validation.ValidateStruct(record,
		validation.Field(&record.Slug, validation.Required, validation.Match(slugPattern).Error("must be a lowercase slug")),
		validation.Field(&record.Title, validation.Required),
		validation.Field(&record.Content, validation.Required),
	)
	if err := validated(err, "invalid page"); err != nil {
		return err
	}

	record, err = s.Registry.Pages().Create(c.UserContext(), record)
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdatePage(c *fiber.Ctx) error {
	return s.patch(c, func(id int64, patch map[string]any) (any, error) {
		return s.Registry.Pages().Patch(c.UserContext(), id, patch)
	})
}

func (s *Server) DeletePage(c *fiber.Ctx) error {
	return s.delete(c, s.Registry.Pages().Delete)
}

func (s *Server) patch(c *fiber.Ctx, apply func(id int64, patch map[string]any) (any, error)) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	record, err := apply(id, patch)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (s *Server) delete(c *fiber.Ctx, remove func(ctx context.Context, id int64) error) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := remove(c.UserContext(), id); err != nil {
		return err
	}
	return success(c)
}
