package enrollment

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-enrollment/repository"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const registrationTimeout = 10 * time.Second

// RegisterAdminMessage creates an admin principal
type RegisterAdminMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (e RegisterAdminMessage) Type() string { return "admin.register" }

// Validate will validate the message
func (e RegisterAdminMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
	)
}

// RegisterStudentMessage creates a student principal
type RegisterStudentMessage struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	FatherName  string `json:"fatherName"`
	MotherName  string `json:"motherName"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Class       string `json:"class"`
	FeeLevel    string `json:"feeLevel"`
}

func (e RegisterStudentMessage) Type() string { return "student.register" }

// Validate will validate the message
func (e RegisterStudentMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Class, validation.Required, validation.Length(1, 50)),
		validation.Field(&e.Phone, PhoneRule(DefaultPhoneRegion)),
		validation.Field(&e.Pincode, PincodeRule),
		validation.Field(&e.FeeLevel, validation.In(feeLevelValues()...)),
	)
}

// RegisterAdminHandler creates admins
type RegisterAdminHandler struct {
	repo       RepositoryManager
	bcryptCost int
}

// NewRegisterAdminHandler returns a handler hashing with bcryptCost
func NewRegisterAdminHandler(repo RepositoryManager, bcryptCost int) *RegisterAdminHandler {
	return &RegisterAdminHandler{repo: repo, bcryptCost: bcryptCost}
}

func (h *RegisterAdminHandler) Execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAdminHandler) execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.FromOzzoValidation(err, "invalid admin registration")
	}

	ctx, cancel := context.WithTimeout(ctx, registrationTimeout)
	defer cancel()

	admin := &Admin{}
	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Admins().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrDuplicateEmail
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		hash, err := HashPassword(event.Password, h.bcryptCost)
		if err != nil {
			return err
		}

		admin.Email = event.Email
		admin.Name = strings.TrimSpace(event.Name)
		admin.PasswordHash = hash

		if admin, err = h.repo.Admins().CreateTx(ctx, tx, admin); err != nil {
			if repository.IsUniqueViolationOn(err, "email") {
				return ErrDuplicateEmail
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin")
		}
		return nil
	})

	if err != nil {
		return nil, transactionError(err, "admin registration transaction failed")
	}

	return admin, nil
}

// RegisterStudentHandler creates students and assigns their registration number
type RegisterStudentHandler struct {
	repo       RepositoryManager
	bcryptCost int
	prefix     string
	now        func() time.Time
}

// NewRegisterStudentHandler returns a handler numbering students with prefix
func NewRegisterStudentHandler(repo RepositoryManager, bcryptCost int, prefix string) *RegisterStudentHandler {
	if prefix == "" {
		prefix = DefaultRegistrationPrefix
	}
	return &RegisterStudentHandler{
		repo:       repo,
		bcryptCost: bcryptCost,
		prefix:     prefix,
		now:        time.Now,
	}
}

// WithClock replaces the time source used to pick the registration year
func (h *RegisterStudentHandler) WithClock(now func() time.Time) *RegisterStudentHandler {
	if now != nil {
		h.now = now
	}
	return h
}

func (h *RegisterStudentHandler) Execute(ctx context.Context, event RegisterStudentMessage) (*Student, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during student registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterStudentHandler) execute(ctx context.Context, event RegisterStudentMessage) (*Student, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.FromOzzoValidation(err, "invalid student registration")
	}

	ctx, cancel := context.WithTimeout(ctx, registrationTimeout)
	defer cancel()

	student := &Student{}
	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Students().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrDuplicateEmail
		} else if !goerrors.IsNotFound(err) {
			return err
		}

		// count then insert is not serialized, the unique index on
		// registration_number rejects a concurrent duplicate
		year := h.now().Year()
		existing, err := h.repo.Students().CountByRegistrationPrefixTx(ctx, tx, RegistrationPrefix(h.prefix, year))
		if err != nil {
			return err
		}

		hash, err := HashPassword(event.Password, h.bcryptCost)
		if err != nil {
			return err
		}

		level := ResolveFeeLevel(event.FeeLevel)

		student.Email = event.Email
		student.PasswordHash = hash
		student.FullName = strings.TrimSpace(event.FullName)
		student.Phone = event.Phone
		student.FatherName = event.FatherName
		student.MotherName = event.MotherName
		student.Address = event.Address
		student.City = event.City
		student.State = "Haryana"
		student.Pincode = event.Pincode
		student.DateOfBirth = event.DateOfBirth
		student.Gender = event.Gender
		student.Class = event.Class
		student.RegistrationNumber = RegistrationNumber(h.prefix, year, existing)
		student.FeeLevel = level
		student.FeeAmount = level.Amount()
		student.IsActive = true

		if student, err = h.repo.Students().CreateTx(ctx, tx, student); err != nil {
			// a concurrent registration can win the email between the
			// lookup and the insert
			if repository.IsUniqueViolationOn(err, "email") {
				return ErrDuplicateEmail
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create student")
		}
		return nil
	})

	if err != nil {
		return nil, transactionError(err, "student registration transaction failed")
	}

	return student, nil
}

func transactionError(err error, message string) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message)
}
