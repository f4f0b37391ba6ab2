package jwtware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	goerrors "github.com/goliatone/go-errors"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// ErrJWTMissingOrMalformed is returned when no extractor finds a token
	ErrJWTMissingOrMalformed = goerrors.New("missing or malformed JWT", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(enrollment.TextCodeUnauthorized)
)

// TokenValidator verifies a raw token and returns its claims
type TokenValidator interface {
	Validate(tokenString string) (enrollment.AuthClaims, error)
}

// ValidationListener is invoked after a token has been validated but before authorization checks.
type ValidationListener func(c *fiber.Ctx, claims enrollment.AuthClaims) error

type Config struct {
	Filter         func(*fiber.Ctx) bool
	SuccessHandler fiber.Handler
	ErrorHandler   fiber.ErrorHandler
	ContextKey     string
	TokenLookup    string
	AuthScheme     string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// RequiredRole specifies an exact role that must be present
	RequiredRole enrollment.Role
	// RoleChecker replaces the default role predicate
	RoleChecker  func(enrollment.AuthClaims, enrollment.Role) error

	// ContextEnricher propagates claims to the request's user context.
	// Defaults to enrollment.WithClaimsContext.
	ContextEnricher func(c context.Context, claims enrollment.AuthClaims) context.Context

	ValidationListeners []ValidationListener
}

// New returns the AuthRequired handler. It stores the verified claims under
// ContextKey and in the user context, and rejects the request otherwise.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if err := cfg.runValidationListeners(c, claims); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		if err := performAuthorizationChecks(claims, cfg); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))

		return cfg.SuccessHandler(c)
	}
}

// RequireRole gates a route on the claims stored by New. It must be
// mounted after New.
func RequireRole(role enrollment.Role, config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	return func(c *fiber.Ctx) error {
		if err := cfg.RoleChecker(Claims(c, cfg.ContextKey), role); err != nil {
			return cfg.ErrorHandler(c, err)
		}
		return c.Next()
	}
}

// AdminOnly is RequireRole for the admin role
func AdminOnly(config ...Config) fiber.Handler {
	return RequireRole(enrollment.RoleAdmin, config...)
}

// Claims returns the claims stored by New, or nil
func Claims(c *fiber.Ctx, contextKey ...string) enrollment.AuthClaims {
	key := "user"
	if len(contextKey) > 0 && contextKey[0] != "" {
		key = contextKey[0]
	}

	if claims, ok := c.Locals(key).(enrollment.AuthClaims); ok && claims != nil {
		return claims
	}

	if claims, ok := enrollment.GetClaims(c.UserContext()); ok {
		return claims
	}
	return nil
}

func performAuthorizationChecks(claims enrollment.AuthClaims, cfg Config) error {
	if cfg.RequiredRole == "" {
		return nil
	}
	return cfg.RoleChecker(claims, cfg.RequiredRole)
}

// ExtractRawToken returns the first token found by extractors
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var err error = ErrJWTMissingOrMalformed
	for _, extractor := range extractors {
		raw, extractErr := extractor(c)
		if raw != "" && extractErr == nil {
			return raw, nil
		}
		if extractErr != nil {
			err = extractErr
		}
	}
	return "", err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = DefaultErrorHandler
	}

	if cfg.RoleChecker == nil {
		cfg.RoleChecker = enrollment.RequireRole
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = enrollment.WithClaimsContext
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// DefaultErrorHandler answers with the error's status and a short JSON
// message. Anything that is not a categorised error becomes a 401.
func DefaultErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	message := "Invalid or expired token"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		message = richErr.Message
		if richErr.Code != 0 {
			status = richErr.Code
		} else if richErr.Category == goerrors.CategoryAuthz {
			status = fiber.StatusForbidden
		}
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(c *fiber.Ctx, claims enrollment.AuthClaims) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(c, claims); err != nil {
			return err
		}
	}
	return nil
}

func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, jwtFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	authScheme = strings.TrimSpace(authScheme)
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			if token := strings.TrimSpace(a[l:]); token != "" {
				return token, nil
			}
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
