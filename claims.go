package enrollment

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the decoded session principal of a request
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Name() string
	Role() Role
	HasRole(role Role) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID         string `json:"uid,omitempty"`
	UserEmail   string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	UserRole    Role   `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the principal id
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

func (c *JWTClaims) Email() string {
	return c.UserEmail
}

func (c *JWTClaims) Name() string {
	return c.DisplayName
}

// Role returns the role embedded at issuance
func (c *JWTClaims) Role() Role {
	return c.UserRole
}

// HasRole checks the embedded role, unknown roles never match
func (c *JWTClaims) HasRole(role Role) bool {
	return c.UserRole.IsValid() && c.UserRole == role
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
