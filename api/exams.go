package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/registry"
	goerrors "github.com/goliatone/go-errors"
)

// ResultRequest creates an exam result
type ResultRequest struct {
	StudentID     int64  `json:"studentId"`
	ExamName      string `json:"examName"`
	MarksObtained *int   `json:"marksObtained"`
	TotalMarks    int    `json:"totalMarks"`
	Grade         string `json:"grade"`
	Rank          *int   `json:"rank"`
	ResultDate    string `json:"resultDate"`
	Remarks       string `json:"remarks"`
	IsPublished   bool   `json:"isPublished"`
}

// Validate will run validation rules
func (r ResultRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.ExamName, validation.Required),
		validation.Field(&r.TotalMarks, validation.Min(0)),
	)
}

func (r ResultRequest) record() *registry.Result {
	total := r.TotalMarks
	if total == 0 {
		total = 100
	}
	return &registry.Result{
		StudentID:     r.StudentID,
		ExamName:      r.ExamName,
		MarksObtained: r.MarksObtained,
		TotalMarks:    total,
		Grade:         r.Grade,
		Rank:          r.Rank,
		ResultDate:    r.ResultDate,
		Remarks:       r.Remarks,
		IsPublished:   r.IsPublished,
	}
}

// AdmitCardRequest creates an admit card
type AdmitCardRequest struct {
	StudentID    int64  `json:"studentId"`
	ExamName     string `json:"examName"`
	FileURL      string `json:"fileUrl"`
	FileName     string `json:"fileName"`
	TermsEnglish string `json:"termsEnglish"`
	TermsHindi   string `json:"termsHindi"`
}

// Validate will run validation rules
func (r AdmitCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.StudentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.ExamName, validation.Required),
		validation.Field(&r.FileURL, validation.Required),
		validation.Field(&r.FileName, validation.Required),
	)
}

// PublicAdmitCardStudent is the student projection shown on a public admit card
type PublicAdmitCardStudent struct {
	FullName           string `json:"fullName"`
	FatherName         string `json:"fatherName"`
	RollNumber         string `json:"rollNumber"`
	RegistrationNumber string `json:"registrationNumber"`
	Class              string `json:"class"`
}

// PublicAdmitCard is looked up by roll number without a token
type PublicAdmitCard struct {
	Student   PublicAdmitCardStudent `json:"student"`
	ExamName  string                 `json:"examName"`
	AdmitData json.RawMessage        `json:"admitData"`
}

var errRollNumberUnknown = goerrors.New("Student not found with this roll number", goerrors.CategoryNotFound).
	WithCode(http.StatusNotFound)

var errAdmitCardMissing = goerrors.New("Admit card not available for this student", goerrors.CategoryNotFound).
	WithCode(http.StatusNotFound)

func (s *Server) ListResults(c *fiber.Ctx) error {
	claims := s.claims(c)
	if claims.HasRole(enrollment.RoleAdmin) {
		records, err := s.Registry.Results().ListNewest(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(records)
	}

	studentID, err := strconv.ParseInt(claims.UserID(), 10, 64)
	if err != nil {
		return enrollment.ErrForbidden
	}

	records, err := s.Registry.Results().ListByStudent(c.UserContext(), studentID, true)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// StudentResults shows unpublished results to admins only
func (s *Server) StudentResults(c *fiber.Ctx) error {
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}

	claims := s.claims(c)
	if err := enrollment.CanAccessStudent(claims, studentID); err != nil {
		return err
	}

	records, err := s.Registry.Results().ListByStudent(c.UserContext(), studentID, !claims.HasRole(enrollment.RoleAdmin))
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateResult(c *fiber.Ctx) error {
	payload := new(ResultRequest)
	if err := bind(c, payload, "invalid result"); err != nil {
		return err
	}

	record, err := s.Registry.Results().Create(c.UserContext(), payload.record())
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) UpdateResult(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	patch, err := bindPatch(c)
	if err != nil {
		return err
	}

	record, err := s.Registry.Results().Patch(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (s *Server) ListAdmitCards(c *fiber.Ctx) error {
	claims := s.claims(c)
	if claims.HasRole(enrollment.RoleAdmin) {
		records, err := s.Registry.AdmitCards().ListNewest(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(records)
	}

	studentID, err := strconv.ParseInt(claims.UserID(), 10, 64)
	if err != nil {
		return enrollment.ErrForbidden
	}

	records, err := s.Registry.AdmitCards().ListByStudent(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) StudentAdmitCards(c *fiber.Ctx) error {
	studentID, err := paramID(c, "studentId")
	if err != nil {
		return err
	}

	if err := enrollment.CanAccessStudent(s.claims(c), studentID); err != nil {
		return err
	}

	records, err := s.Registry.AdmitCards().ListByStudent(c.UserContext(), studentID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (s *Server) CreateAdmitCard(c *fiber.Ctx) error {
	payload := new(AdmitCardRequest)
	if err := bind(c, payload, "invalid admit card"); err != nil {
		return err
	}

	record, err := s.Registry.AdmitCards().Create(c.UserContext(), &registry.AdmitCard{
		StudentID:    payload.StudentID,
		ExamName:     payload.ExamName,
		FileURL:      payload.FileURL,
		FileName:     payload.FileName,
		TermsEnglish: payload.TermsEnglish,
		TermsHindi:   payload.TermsHindi,
	})
	if err != nil {
		return err
	}
	return created(c, record)
}

func (s *Server) DeleteAdmitCard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := s.Registry.AdmitCards().Delete(c.UserContext(), id); err != nil {
		return err
	}
	return success(c)
}

// PublicAdmitCard shows the latest admit card of the student holding the
// roll number. A fileUrl holding JSON is returned as admitData.
func (s *Server) PublicAdmitCard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	student, err := s.Principals.Students().GetByRollNumber(ctx, c.Params("rollNumber"))
	if err != nil {
		if goerrors.IsNotFound(err) {
			return errRollNumberUnknown
		}
		return err
	}

	cards, err := s.Registry.AdmitCards().ListByStudent(ctx, student.ID)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return errAdmitCardMissing
	}

	admitData := json.RawMessage("null")
	if json.Valid([]byte(cards[0].FileURL)) {
		admitData = json.RawMessage(cards[0].FileURL)
	}

	return c.JSON(PublicAdmitCard{
		Student: PublicAdmitCardStudent{
			FullName:           student.FullName,
			FatherName:         student.FatherName,
			RollNumber:         student.RollNumber,
			RegistrationNumber: student.RegistrationNumber,
			Class:              student.Class,
		},
		ExamName:  cards[0].ExamName,
		AdmitData: admitData,
	})
}
