package api

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// Validator is implemented by request payloads
type Validator interface {
	Validate() error
}

// paramID parses a numeric route parameter
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name).
			WithMetadata(map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// bind decodes the JSON body into payload and validates it when possible
func bind(c *fiber.Ctx, payload any, message string) error {
	if err := c.BodyParser(payload); err != nil {
		return badRequest("invalid request body")
	}

	if v, ok := payload.(Validator); ok {
		if err := v.Validate(); err != nil {
			return goerrors.FromOzzoValidation(err, message)
		}
	}
	return nil
}

// bindPatch decodes the JSON body into a partial update
func bindPatch(c *fiber.Ctx) (map[string]any, error) {
	patch := map[string]any{}
	if len(c.Body()) == 0 {
		return patch, nil
	}

	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return nil, badRequest("invalid request body")
	}
	return patch, nil
}

func created(c *fiber.Ctx, record any) error {
	return c.Status(fiber.StatusCreated).JSON(record)
}

// acknowledged answers a public submission without echoing the stored row
func acknowledged(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": message})
}

func success(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
