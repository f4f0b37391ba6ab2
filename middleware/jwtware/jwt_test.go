package jwtware_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/middleware/jwtware"
)

type identity struct {
	id, email, name string
	role            enrollment.Role
}

func (i identity) ID() string            { return i.id }
func (i identity) Email() string         { return i.email }
func (i identity) Name() string          { return i.name }
func (i identity) Role() enrollment.Role { return i.role }

func newTokens() *enrollment.TokenServiceImpl {
	return enrollment.NewTokenService([]byte("test-secret"), time.Hour, "", nil)
}

func newApp(tokens jwtware.TokenValidator) *fiber.App {
	app := fiber.New()
	auth := jwtware.New(jwtware.Config{TokenValidator: tokens})

	app.Get("/me", auth, func(c *fiber.Ctx) error {
		claims := jwtware.Claims(c)
		fromCtx, ok := enrollment.GetClaims(c.UserContext())
		if !ok || fromCtx.UserID() != claims.UserID() {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": claims.UserID(), "role": claims.Role()})
	})

	app.Get("/admin", auth, jwtware.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return app
}

func do(t *testing.T, app *fiber.App, path, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestJWTWare_AuthRequired(t *testing.T) {
	tokens := newTokens()
	app := newApp(tokens)

	studentToken, err := tokens.Generate(identity{id: "7", email: "s@example.com", name: "Student", role: enrollment.RoleStudent})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		status, body := do(t, app, "/me", studentToken)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "7", body["id"])
		assert.Equal(t, "student", body["role"])
	})

	t.Run("missing token", func(t *testing.T) {
		status, body := do(t, app, "/me", "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.NotEmpty(t, body["error"])
	})

	t.Run("tampered token", func(t *testing.T) {
		status, _ := do(t, app, "/me", studentToken+"x")
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := enrollment.NewTokenService([]byte("other-secret"), time.Hour, "", nil)
		token, err := other.Generate(identity{id: "7", email: "s@example.com", role: enrollment.RoleStudent})
		require.NoError(t, err)

		status, _ := do(t, app, "/me", token)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}

func TestJWTWare_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	issuer := newTokens().WithClock(func() time.Time { return issuedAt })

	token, err := issuer.Generate(identity{id: "1", email: "a@example.com", role: enrollment.RoleAdmin})
	require.NoError(t, err)

	verifier := newTokens().WithClock(func() time.Time { return issuedAt.Add(time.Hour) })
	status, body := do(t, newApp(verifier), "/me", token)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token has expired", body["error"])
}

func TestJWTWare_AdminOnly(t *testing.T) {
	tokens := newTokens()
	app := newApp(tokens)

	adminToken, err := tokens.Generate(identity{id: "1", email: "a@example.com", role: enrollment.RoleAdmin})
	require.NoError(t, err)
	studentToken, err := tokens.Generate(identity{id: "2", email: "s@example.com", role: enrollment.RoleStudent})
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "admin token", token: adminToken, status: fiber.StatusOK},
		{name: "student token", token: studentToken, status: fiber.StatusForbidden},
		{name: "no token", token: "", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, "/admin", tt.token)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestJWTWare_RequiredRoleAndFilter(t *testing.T) {
	tokens := newTokens()
	studentToken, err := tokens.Generate(identity{id: "2", email: "s@example.com", role: enrollment.RoleStudent})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(jwtware.New(jwtware.Config{
		TokenValidator: tokens,
		RequiredRole:   enrollment.RoleAdmin,
		Filter: func(c *fiber.Ctx) bool {
			return c.Path() == "/public"
		},
	}))
	app.Get("/public", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/private", func(c *fiber.Ctx) error { return c.SendString("ok") })

	status, _ := do(t, app, "/public", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := do(t, app, "/private", studentToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Access denied", body["error"])
}

func TestJWTWare_ValidationListener(t *testing.T) {
	tokens := newTokens()
	token, err := tokens.Generate(identity{id: "3", email: "a@example.com", role: enrollment.RoleAdmin})
	require.NoError(t, err)

	var seen string
	app := fiber.New()
	app.Get("/", jwtware.New(jwtware.Config{
		TokenValidator: tokens,
		ValidationListeners: []jwtware.ValidationListener{
			func(c *fiber.Ctx, claims enrollment.AuthClaims) error {
				seen = claims.Email()
				return nil
			},
		},
	}), func(c *fiber.Ctx) error { return c.SendString("ok") })

	status, _ := do(t, app, "/", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "a@example.com", seen)
}
