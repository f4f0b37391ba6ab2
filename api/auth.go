package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
)

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (s *Server) AdminLogin(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := bind(c, payload, "invalid login request"); err != nil {
		return err
	}

	result, err := s.Auther.LoginAdmin(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) StudentLogin(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := bind(c, payload, "invalid login request"); err != nil {
		return err
	}

	result, err := s.Auther.LoginStudent(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func (s *Server) AdminRegister(c *fiber.Ctx) error {
	payload := enrollment.RegisterAdminMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	result, err := s.Auther.RegisterAdmin(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return created(c, result)
}

func (s *Server) StudentRegister(c *fiber.Ctx) error {
	payload := enrollment.RegisterStudentMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	result, err := s.Auther.RegisterStudent(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return created(c, result)
}

// Me returns the caller's own record plus role
func (s *Server) Me(c *fiber.Ctx) error {
	profile, err := s.Auther.Me(c.UserContext(), s.claims(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
