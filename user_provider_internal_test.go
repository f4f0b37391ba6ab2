package enrollment

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticStudents struct {
	student *Student
}

func (s staticStudents) GetByEmail(context.Context, string) (*Student, error) {
	if s.student == nil {
		return nil, goerrors.New("Student not found", goerrors.CategoryNotFound)
	}
	return s.student, nil
}

type staticAdmins struct{}

func (staticAdmins) GetByEmail(context.Context, string) (*Admin, error) {
	return nil, goerrors.New("Admin not found", goerrors.CategoryNotFound)
}

func TestDummyPasswordHashIsUsable(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(dummyPasswordHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)

	assert.ErrorIs(t, ComparePasswordAndHash("anything", dummyPasswordHash), ErrInvalidCredentials)
}

func TestVerifyIdentityComparesHashes(t *testing.T) {
	var hashes []string
	original := comparePassword
	comparePassword = func(password, hash string) error {
		hashes = append(hashes, hash)
		return ErrInvalidCredentials
	}
	t.Cleanup(func() { comparePassword = original })

	ctx := context.Background()

	t.Run("unknown student email", func(t *testing.T) {
		hashes = nil
		provider := NewUserProvider(staticAdmins{}, staticStudents{})

		_, err := provider.VerifyIdentity(ctx, RoleStudent, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, []string{dummyPasswordHash}, hashes)
	})

	t.Run("unknown admin email", func(t *testing.T) {
		hashes = nil
		provider := NewUserProvider(staticAdmins{}, staticStudents{})

		_, err := provider.VerifyIdentity(ctx, RoleAdmin, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, []string{dummyPasswordHash}, hashes)
	})

	t.Run("deactivated student skips the compare", func(t *testing.T) {
		hashes = nil
		provider := NewUserProvider(staticAdmins{}, staticStudents{
			student: &Student{ID: 7, PasswordHash: "$2a$04$stored", IsActive: false},
		})

		_, err := provider.VerifyIdentity(ctx, RoleStudent, "s@example.com", "wrong")
		assert.ErrorIs(t, err, ErrAccountDeactivated)
		assert.Empty(t, hashes)
	})
}
