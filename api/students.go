package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/registry"
)

// PaymentRequest records a fee payment for a student
type PaymentRequest struct {
	Amount      int        `json:"amount"`
	PaymentDate *time.Time `json:"paymentDate"`
}

// Validate will run validation rules
func (r PaymentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.Min(1)),
	)
}

// FeeRecord is the fee view of a student who paid
type FeeRecord struct {
	FullName           string              `json:"fullName"`
	RegistrationNumber string              `json:"registrationNumber"`
	RollNumber         string              `json:"rollNumber"`
	Class              string              `json:"class"`
	FeeLevel           enrollment.FeeLevel `json:"feeLevel"`
	FeeAmount          int                 `json:"feeAmount"`
	PaymentDate        *time.Time          `json:"paymentDate"`
}

// DashboardStats summarises student registrations
type DashboardStats struct {
	TotalStudents      int `json:"totalStudents"`
	TodayRegistrations int `json:"todayRegistrations"`
	FeesPaid           int `json:"feesPaid"`
	ActiveStudents     int `json:"activeStudents"`
}

// StudentProfile is the student self service view
type StudentProfile struct {
	Student    *enrollment.Student   `json:"student"`
	Results    []*registry.Result    `json:"results"`
	AdmitCards []*registry.AdmitCard `json:"admitCards"`
}

func (s *Server) ListStudents(c *fiber.Ctx) error {
	records, err := s.Principals.Students().ListNewest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// GetStudent answers 404 before the ownership check, so a student can
// tell whether an id exists
func (s *Server) GetStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	student, err := s.Principals.Students().Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	if err := enrollment.CanAccessStudent(s.claims(c), student.ID); err != nil {
		return err
	}
	return c.JSON(student)
}

func (s *Server) UpdateStudent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	student, err := s.Principals.Students().Patch(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(student)
}

func (s *Server) CreateStudent(c *fiber.Ctx) error {
	payload := enrollment.RegisterStudentMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	student, err := s.Auther.CreateStudent(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return created(c, student)
}

func (s *Server) RecordPayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	payload := new(PaymentRequest)
	if err := bind(c, payload, "invalid payment"); err != nil {
		return err
	}

	paidAt := s.Now()
	if payload.PaymentDate != nil {
		paidAt = *payload.PaymentDate
	}

	student, err := s.Principals.Students().Patch(c.UserContext(), id, map[string]any{
		"feePaid":     true,
		"feeAmount":   payload.Amount,
		"paymentDate": paidAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(student)
}

func (s *Server) FeeRecords(c *fiber.Ctx) error {
	students, err := s.Principals.Students().ListFeePaid(c.UserContext())
	if err != nil {
		return err
	}

	records := make([]FeeRecord, 0, len(students))
	for _, st := range students {
		records = append(records, FeeRecord{
			FullName:           st.FullName,
			RegistrationNumber: st.RegistrationNumber,
			RollNumber:         st.RollNumber,
			Class:              st.Class,
			FeeLevel:           st.FeeLevel,
			FeeAmount:          st.FeeAmount,
			PaymentDate:        st.PaymentDate,
		})
	}
	return c.JSON(records)
}

func (s *Server) DashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	students := s.Principals.Students()

	now := s.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		stats DashboardStats
		err   error
	)

	if stats.TotalStudents, err = students.Count(ctx); err != nil {
		return err
	}
	if stats.TodayRegistrations, err = students.CountCreatedSince(ctx, midnight); err != nil {
		return err
	}
	if stats.FeesPaid, err = students.CountFeePaid(ctx); err != nil {
		return err
	}
	if stats.ActiveStudents, err = students.CountActive(ctx); err != nil {
		return err
	}

	return c.JSON(stats)
}

// MyProfile returns the calling student with published results and admit cards
func (s *Server) MyProfile(c *fiber.Ctx) error {
	claims := s.claims(c)
	if claims == nil || !claims.HasRole(enrollment.RoleStudent) {
		return errStudentsOnly
	}

	profile, err := s.Auther.Me(c.UserContext(), claims)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	results, err := s.Registry.Results().ListByStudent(ctx, profile.Student.ID, true)
	if err != nil {
		return err
	}

	cards, err := s.Registry.AdmitCards().ListByStudent(ctx, profile.Student.ID)
	if err != nil {
		return err
	}

	return c.JSON(StudentProfile{
		Student:    profile.Student,
		Results:    results,
		AdmitCards: cards,
	})
}
