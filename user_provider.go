package enrollment

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AdminFinder looks up admins by exact email
type AdminFinder interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

// StudentFinder looks up students by exact email
type StudentFinder interface {
	GetByEmail(ctx context.Context, email string) (*Student, error)
}

// UserProvider verifies credentials for admins and students
type UserProvider struct {
	admins   AdminFinder
	students StudentFinder
	logger   Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(admins AdminFinder, students StudentFinder) *UserProvider {
	return &UserProvider{
		admins:   admins,
		students: students,
		logger:   defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// dummyPasswordHash is compared when the email is unknown so a miss costs
// the same bcrypt work as a wrong password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p5C5wZpGl4.7dsa3LqFGoy"

var comparePassword = ComparePasswordAndHash

// VerifyIdentity finds the principal of the given kind, compares the
// password and returns its identity. Unknown emails and wrong passwords
// both yield ErrInvalidCredentials. A deactivated student is rejected
// before the password is checked.
func (u *UserProvider) VerifyIdentity(ctx context.Context, role Role, email, password string) (Identity, error) {
	switch role {
	case RoleAdmin:
		return u.verifyAdmin(ctx, email, password)
	case RoleStudent:
		return u.verifyStudent(ctx, email, password)
	default:
		return nil, errors.New("unknown principal kind", errors.CategoryInternal).
			WithMetadata(map[string]any{"role": role})
	}
}

func (u *UserProvider) verifyAdmin(ctx context.Context, email, password string) (Identity, error) {
	admin, err := u.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, password)
	}

	if err := comparePassword(password, admin.PasswordHash); err != nil {
		return nil, err
	}

	return admin.Identity(), nil
}

func (u *UserProvider) verifyStudent(ctx context.Context, email, password string) (Identity, error) {
	student, err := u.students.GetByEmail(ctx, email)
	if err != nil {
		return nil, lookupError(err, password)
	}

	if !student.IsActive {
		u.logger.Info("login rejected for deactivated student", "student_id", student.ID)
		return nil, ErrAccountDeactivated
	}

	if err := comparePassword(password, student.PasswordHash); err != nil {
		return nil, err
	}

	return student.Identity(), nil
}

func lookupError(err error, password string) error {
	if errors.IsNotFound(err) {
		_ = comparePassword(password, dummyPasswordHash)
		return ErrInvalidCredentials
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
}

type authIdentity struct {
	id    string
	email string
	name  string
	role  Role
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

func (a authIdentity) Name() string {
	return a.name
}

func (a authIdentity) Role() Role {
	return a.role
}

var _ Identity = authIdentity{}
