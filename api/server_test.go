package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/api"
	"github.com/goliatone/go-enrollment/config"
	"github.com/goliatone/go-enrollment/internal/dbtest"
	"github.com/goliatone/go-enrollment/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

type harness struct {
	t          *testing.T
	app        *fiber.App
	principals enrollment.RepositoryManager
	registry   registry.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := dbtest.New(t, append(enrollment.Models(), registry.Models()...)...)
	principals := enrollment.NewRepositoryManager(db)
	reg := registry.NewManager(db)

	cfg := config.Defaults()
	cfg.Auth.SigningKey = "api-test-key"
	cfg.Auth.BcryptCost = 4

	auther := enrollment.NewAuthenticator(principals, cfg).WithLogger(quietLogger{})

	server := api.NewServer(auther, principals, reg,
		api.WithLogger(quietLogger{}),
		api.WithTokenLookup(cfg.Auth.TokenLookup, cfg.Auth.AuthScheme, cfg.Auth.ContextKey),
	)

	app := api.NewApp(quietLogger{})
	server.Register(app)

	return &harness{t: t, app: app, principals: principals, registry: reg}
}

func (h *harness) do(method, path, token string, body any) (int, []byte) {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, out
}

func (h *harness) object(raw []byte) map[string]any {
	h.t.Helper()
	out := map[string]any{}
	require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (h *harness) list(raw []byte) []map[string]any {
	h.t.Helper()
	var out []map[string]any
	require.NoError(h.t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func (h *harness) registerStudent(email string) (string, int64) {
	h.t.Helper()

	status, raw := h.do(http.MethodPost, "/api/auth/student/register", "", map[string]any{
		"email":    email,
		"password": "secret1",
		"fullName": "Student " + email,
		"class":    "10",
		"phone":    "9876543210",
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))

	body := h.object(raw)
	user := body["user"].(map[string]any)
	return body["token"].(string), int64(user["id"].(float64))
}

func (h *harness) registerAdmin(email string) string {
	h.t.Helper()

	status, raw := h.do(http.MethodPost, "/api/auth/admin/register", "", map[string]any{
		"email":    email,
		"password": "secret1",
		"name":     "Admin",
	})
	require.Equal(h.t, http.StatusCreated, status, string(raw))
	return h.object(raw)["token"].(string)
}

func TestAuthEndpoints(t *testing.T) {
	h := newHarness(t)

	t.Run("student registration returns token and number", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/auth/student/register", "", map[string]any{
			"email":    "first@example.com",
			"password": "secret1",
			"fullName": "First Student",
			"class":    "8",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))

		body := h.object(raw)
		assert.NotEmpty(t, body["token"])
		assert.Regexp(t, `^MWSS\d{4}0001$`, body["registrationNumber"])

		user := body["user"].(map[string]any)
		assert.Equal(t, "student", user["role"])
		assert.Equal(t, "First Student", user["name"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/auth/student/register", "", map[string]any{
			"email":    "first@example.com",
			"password": "secret1",
			"fullName": "Again",
			"class":    "8",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Email already registered", h.object(raw)["error"])
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/auth/student/register", "", map[string]any{
			"email":    "not-an-email",
			"password": "123",
		})
		assert.Equal(t, http.StatusBadRequest, status)

		fields, ok := h.object(raw)["fields"].(map[string]any)
		require.True(t, ok, string(raw))
		for _, name := range []string{"email", "password", "fullName", "class"} {
			assert.Contains(t, fields, name)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/student/login", bytes.NewBufferString("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := h.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	cases := []struct {
		name     string
		path     string
		email    string
		password string
		status   int
		message  string
	}{
		{"student login", "/api/auth/student/login", "first@example.com", "secret1", http.StatusOK, ""},
		{"wrong password", "/api/auth/student/login", "first@example.com", "secret2", http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", "/api/auth/student/login", "nobody@example.com", "secret1", http.StatusUnauthorized, "Invalid credentials"},
		{"student cannot use admin login", "/api/auth/admin/login", "first@example.com", "secret1", http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", "/api/auth/student/login", "first@example.com", "", http.StatusBadRequest, "invalid login request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := h.do(http.MethodPost, tc.path, "", map[string]string{
				"email":    tc.email,
				"password": tc.password,
			})
			assert.Equal(t, tc.status, status, string(raw))

			body := h.object(raw)
			if tc.message == "" {
				assert.NotEmpty(t, body["token"])
				return
			}
			assert.Equal(t, tc.message, body["error"])
		})
	}
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	token, id := h.registerStudent("me@example.com")
	adminToken := h.registerAdmin("admin@example.com")

	t.Run("student", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, "student", body["role"])
		assert.Equal(t, float64(id), body["id"])
		assert.Equal(t, "me@example.com", body["email"])
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "PasswordHash")
	})

	t.Run("admin", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/auth/me", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, "admin", h.object(raw)["role"])
	})

	t.Run("missing token", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "missing or malformed JWT", h.object(raw)["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/auth/me", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid token", h.object(raw)["error"])
	})
}

func TestAdminOnlyRoutes(t *testing.T) {
	h := newHarness(t)
	studentToken, _ := h.registerStudent("s@example.com")
	adminToken := h.registerAdmin("a@example.com")

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"student", studentToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusOK},
	}

	for _, path := range []string{"/api/students", "/api/memberships", "/api/admin/settings", "/api/dashboard/stats"} {
		for _, tc := range cases {
			t.Run(path+" "+tc.name, func(t *testing.T) {
				status, raw := h.do(http.MethodGet, path, tc.token, nil)
				assert.Equal(t, tc.status, status, string(raw))
			})
		}
	}
}

func TestStudentAccess(t *testing.T) {
	h := newHarness(t)
	aliceToken, aliceID := h.registerStudent("alice@example.com")
	_, bobID := h.registerStudent("bob@example.com")
	adminToken := h.registerAdmin("admin@example.com")

	cases := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"own record", aliceToken, "/api/students/" + itoa(aliceID), http.StatusOK},
		{"other record", aliceToken, "/api/students/" + itoa(bobID), http.StatusForbidden},
		{"unknown record checked first", aliceToken, "/api/students/999", http.StatusNotFound},
		{"bad id", aliceToken, "/api/students/abc", http.StatusBadRequest},
		{"admin reads any", adminToken, "/api/students/" + itoa(bobID), http.StatusOK},
		{"own results", aliceToken, "/api/results/student/" + itoa(aliceID), http.StatusOK},
		{"other results", aliceToken, "/api/results/student/" + itoa(bobID), http.StatusForbidden},
		{"other admit cards", aliceToken, "/api/admit-cards/student/" + itoa(bobID), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := h.do(http.MethodGet, tc.path, tc.token, nil)
			assert.Equal(t, tc.status, status, string(raw))
		})
	}

	t.Run("not found message names the record", func(t *testing.T) {
		_, raw := h.do(http.MethodGet, "/api/students/999", adminToken, nil)
		assert.Equal(t, "Student not found", h.object(raw)["error"])
	})
}

func TestStudentAdministration(t *testing.T) {
	h := newHarness(t)
	adminToken := h.registerAdmin("admin@example.com")
	_, first := h.registerStudent("one@example.com")
	h.registerStudent("two@example.com")

	t.Run("create student uses default password", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/students", adminToken, map[string]any{
			"email":    "three@example.com",
			"fullName": "Three",
			"class":    "9",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Regexp(t, `^MWSS\d{4}0003$`, h.object(raw)["registrationNumber"])

		status, _ = h.do(http.MethodPost, "/api/auth/student/login", "", map[string]string{
			"email":    "three@example.com",
			"password": enrollment.DefaultStudentPassword,
		})
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("registration number is immutable", func(t *testing.T) {
		status, raw := h.do(http.MethodPatch, "/api/students/"+itoa(first), adminToken, map[string]any{
			"registrationNumber": "HACKED",
			"city":               "Hisar",
		})
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Regexp(t, `^MWSS\d{4}0001$`, body["registrationNumber"])
		assert.Equal(t, "Hisar", body["city"])
	})

	t.Run("record payment", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/admin/students/"+itoa(first)+"/payment", adminToken, map[string]any{
			"amount": 199,
		})
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, true, body["feePaid"])
		assert.Equal(t, float64(199), body["feeAmount"])
		assert.NotNil(t, body["paymentDate"])
	})

	t.Run("payment needs an amount", func(t *testing.T) {
		status, _ := h.do(http.MethodPost, "/api/admin/students/"+itoa(first)+"/payment", adminToken, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("fee records list payers only", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/admin/fee-records", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		records := h.list(raw)
		require.Len(t, records, 1)
		assert.Equal(t, "Student one@example.com", records[0]["fullName"])
		assert.Equal(t, float64(199), records[0]["feeAmount"])
	})

	t.Run("dashboard stats", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/dashboard/stats", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, float64(3), body["totalStudents"])
		assert.Equal(t, float64(3), body["todayRegistrations"])
		assert.Equal(t, float64(1), body["feesPaid"])
		assert.Equal(t, float64(3), body["activeStudents"])
	})

	t.Run("deactivated student cannot log in", func(t *testing.T) {
		status, raw := h.do(http.MethodPatch, "/api/students/"+itoa(first), adminToken, map[string]any{
			"isActive": false,
		})
		require.Equal(t, http.StatusOK, status, string(raw))

		status, raw = h.do(http.MethodPost, "/api/auth/student/login", "", map[string]string{
			"email":    "one@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Account is deactivated", h.object(raw)["error"])

		status, raw = h.do(http.MethodPost, "/api/auth/student/login", "", map[string]string{
			"email":    "one@example.com",
			"password": "not-the-password",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Account is deactivated", h.object(raw)["error"])
	})
}

func TestRegistrationNumberCollision(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.registerStudent("one@example.com")
	h.registerStudent("two@example.com")

	// the next computed number is taken by a row written outside registration
	_, err := h.principals.Students().Create(ctx, &enrollment.Student{
		Email:              "manual@example.com",
		PasswordHash:       "x",
		FullName:           "Manual Entry",
		Class:              "10",
		RegistrationNumber: enrollment.RegistrationNumber(enrollment.DefaultRegistrationPrefix, time.Now().Year(), 3),
		IsActive:           true,
	})
	require.NoError(t, err)

	status, raw := h.do(http.MethodPost, "/api/auth/student/register", "", map[string]any{
		"email":    "three@example.com",
		"password": "secret1",
		"fullName": "Student three",
		"class":    "10",
		"phone":    "9876543210",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "could not create student: Student conflicts with an existing record", h.object(raw)["error"])

	_, err = h.principals.Students().GetByEmail(ctx, "three@example.com")
	assert.Error(t, err)
}

func TestExams(t *testing.T) {
	h := newHarness(t)
	adminToken := h.registerAdmin("admin@example.com")
	studentToken, studentID := h.registerStudent("exam@example.com")

	status, raw := h.do(http.MethodPatch, "/api/students/"+itoa(studentID), adminToken, map[string]any{
		"rollNumber": "R-101",
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	for _, published := range []bool{true, false} {
		status, raw := h.do(http.MethodPost, "/api/results", adminToken, map[string]any{
			"studentId":     studentID,
			"examName":      "Final",
			"marksObtained": 80,
			"isPublished":   published,
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Equal(t, float64(100), h.object(raw)["totalMarks"])
	}

	t.Run("public admit card without cards", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/public/admit-card/R-101", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Admit card not available for this student", h.object(raw)["error"])
	})

	t.Run("public admit card unknown roll number", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/public/admit-card/R-999", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Student not found with this roll number", h.object(raw)["error"])
	})

	status, raw = h.do(http.MethodPost, "/api/admit-cards", adminToken, map[string]any{
		"studentId": studentID,
		"examName":  "Final",
		"fileUrl":   `{"center":"Hisar","seat":12}`,
		"fileName":  "final.json",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	t.Run("public admit card", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/public/admit-card/R-101", "", nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, "Final", body["examName"])
		assert.Equal(t, map[string]any{"center": "Hisar", "seat": float64(12)}, body["admitData"])

		student := body["student"].(map[string]any)
		assert.Equal(t, "R-101", student["rollNumber"])
		assert.NotContains(t, student, "email")
	})

	t.Run("student sees published results only", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/results", studentToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Len(t, h.list(raw), 1)
	})

	t.Run("admin sees every result", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/results", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Len(t, h.list(raw), 2)
	})

	t.Run("my profile", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/my-profile", studentToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Len(t, body["results"], 1)
		assert.Len(t, body["admitCards"], 1)
		assert.Equal(t, "R-101", body["student"].(map[string]any)["rollNumber"])
	})

	t.Run("my profile is for students", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/my-profile", adminToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Students only", h.object(raw)["error"])
	})
}

func TestMemberships(t *testing.T) {
	h := newHarness(t)
	adminToken := h.registerAdmin("admin@example.com")
	studentToken, studentID := h.registerStudent("member@example.com")

	t.Run("public application", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/memberships", "", map[string]any{
			"userId":      studentID,
			"memberName":  "Member",
			"memberPhone": "9876543210",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, "MWSS-M0001", body["membershipNumber"])
		assert.Equal(t, "regular", body["membershipType"])
	})

	t.Run("application needs a phone", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/memberships", "", map[string]any{
			"memberName": "Member",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, h.object(raw)["fields"], "memberPhone")
	})

	t.Run("no card yet", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/my-membership-card", studentToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null", string(raw))
	})

	t.Run("issued card", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/memberships", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		memberships := h.list(raw)
		require.Len(t, memberships, 1)

		status, raw = h.do(http.MethodPost, "/api/admin/membership-cards", adminToken, map[string]any{
			"membershipId": memberships[0]["id"],
			"memberName":   "Member",
			"validFrom":    "2026-01-01",
			"validUntil":   "2026-12-31",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		card := h.object(raw)
		assert.Regexp(t, `^MC\d{4}0001$`, card["cardNumber"])

		status, raw = h.do(http.MethodPatch, "/api/admin/membership-cards/"+itoa(int64(card["id"].(float64))), adminToken, map[string]any{
			"paymentStatus": "approved",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, true, h.object(raw)["isGenerated"])

		status, raw = h.do(http.MethodGet, "/api/my-membership-card", studentToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, card["cardNumber"], h.object(raw)["cardNumber"])
	})
}

func TestContent(t *testing.T) {
	h := newHarness(t)
	adminToken := h.registerAdmin("admin@example.com")

	t.Run("published page renders markdown", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/admin/pages", adminToken, map[string]any{
			"slug":        "about-us",
			"title":       "About",
			"content":     "# About\n\nWe teach.",
			"isPublished": true,
		})
		require.Equal(t, http.StatusCreated, status, string(raw))

		status, raw = h.do(http.MethodGet, "/api/public/pages/about-us", "", nil)
		require.Equal(t, http.StatusOK, status, string(raw))

		body := h.object(raw)
		assert.Equal(t, "About", body["title"])
		assert.Equal(t, "<h1>About</h1>\n<p>We teach.</p>\n", body["contentHtml"])
	})

	t.Run("draft page is hidden", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/admin/pages", adminToken, map[string]any{
			"slug":    "draft",
			"title":   "Draft",
			"content": "soon",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))

		status, _ = h.do(http.MethodGet, "/api/public/pages/draft", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("contact form", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/public/contact", "", map[string]any{
			"name":    "Visitor",
			"email":   "visitor@example.com",
			"subject": "Hello",
			"message": "Question",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Equal(t, map[string]any{"success": true, "message": "Message sent successfully"}, h.object(raw))

		status, raw = h.do(http.MethodGet, "/api/admin/contact-inquiries", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		inquiries := h.list(raw)
		require.Len(t, inquiries, 1)
		assert.Equal(t, "pending", inquiries[0]["status"])
	})

	t.Run("volunteer application", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/public/volunteer-apply", "", map[string]any{
			"fullName":   "Helper",
			"email":      "helper@example.com",
			"phone":      "9876543210",
			"status":     "approved",
			"adminNotes": "self approved",
		})
		require.Equal(t, http.StatusCreated, status, string(raw))
		assert.Equal(t, map[string]any{"success": true, "message": "Application submitted successfully"}, h.object(raw))

		status, raw = h.do(http.MethodGet, "/api/admin/volunteers", adminToken, nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		volunteers := h.list(raw)
		require.Len(t, volunteers, 1)
		assert.Equal(t, "pending", volunteers[0]["status"])
		assert.Empty(t, volunteers[0]["adminNotes"])
	})

	t.Run("contact form validation", func(t *testing.T) {
		status, raw := h.do(http.MethodPost, "/api/public/contact", "", map[string]any{
			"name":  "Visitor",
			"email": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, status)

		fields := h.object(raw)["fields"].(map[string]any)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "subject")
		assert.Contains(t, fields, "message")
	})

	t.Run("unknown content section", func(t *testing.T) {
		status, raw := h.do(http.MethodGet, "/api/public/content/sidebar", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "unknown section key", h.object(raw)["error"])
	})

	t.Run("setting upsert creates then updates", func(t *testing.T) {
		status, raw := h.do(http.MethodPatch, "/api/admin/settings/show_banner", adminToken, map[string]any{
			"value": "true",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, "show_banner", h.object(raw)["label"])

		status, raw = h.do(http.MethodPatch, "/api/admin/settings/show_banner", adminToken, map[string]any{
			"value": "false",
		})
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Equal(t, "false", h.object(raw)["value"])

		status, raw = h.do(http.MethodGet, "/api/public/settings", "", nil)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Len(t, h.list(raw), 1)
	})
}

func itoa(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
