package enrollment

import (
	"context"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-enrollment/repository"
)

// DefaultStudentPassword is assigned to students created by an admin
// without an explicit password
const DefaultStudentPassword = "password123"

// LoginResult is returned by login and registration
type LoginResult struct {
	Token              string   `json:"token"`
	User               AuthUser `json:"user"`
	RegistrationNumber string   `json:"registrationNumber,omitempty"`
}

type Auther struct {
	provider        IdentityProvider
	repo            RepositoryManager
	tokenService    TokenService
	registerAdmin   *RegisterAdminHandler
	registerStudent *RegisterStudentHandler
	defaultPassword string
	logger          Logger
	activitySink    ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	defaultPassword := opts.GetDefaultStudentPassword()
	if defaultPassword == "" {
		defaultPassword = DefaultStudentPassword
	}

	return &Auther{
		provider:        NewUserProvider(repo.Admins(), repo.Students()),
		repo:            repo,
		tokenService:    tokenService,
		registerAdmin:   NewRegisterAdminHandler(repo, opts.GetBcryptCost()),
		registerStudent: NewRegisterStudentHandler(repo, opts.GetBcryptCost(), opts.GetRegistrationPrefix()),
		defaultPassword: defaultPassword,
		logger:          defLogger{},
		activitySink:    noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger == nil {
		return s
	}
	s.logger = logger
	if p, ok := s.provider.(*UserProvider); ok {
		p.WithLogger(logger)
	}
	if ts, ok := s.tokenService.(*TokenServiceImpl); ok {
		ts.logger = logger
	}
	return s
}

// WithIdentityProvider replaces the credential verifier
func (s *Auther) WithIdentityProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.provider = provider
	}
	return s
}

// WithTokenService replaces the token issuer and verifier
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClock replaces the time source used for registration numbers
func (s *Auther) WithClock(now func() time.Time) *Auther {
	s.registerStudent.WithClock(now)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// LoginAdmin verifies admin credentials and issues a token
func (s *Auther) LoginAdmin(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, RoleAdmin, email, password)
}

// LoginStudent verifies student credentials and issues a token
func (s *Auther) LoginStudent(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.login(ctx, RoleStudent, email, password)
}

func (s *Auther) login(ctx context.Context, role Role, email, password string) (*LoginResult, error) {
	identity, err := s.provider.VerifyIdentity(ctx, role, email, password)
	if err != nil {
		s.logger.Debug("Login verify identity error", "role", role, "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, role, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	result, err := s.issue(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "role", role, "error", err)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, role, identity.ID(), nil)
	return result, nil
}

// RegisterAdmin creates an admin and issues its first token
func (s *Auther) RegisterAdmin(ctx context.Context, msg RegisterAdminMessage) (*LoginResult, error) {
	admin, err := s.registerAdmin.Execute(ctx, msg)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(admin.Identity())
	if err != nil {
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventRegistered, RoleAdmin, result.User.idString(), nil)
	return result, nil
}

// RegisterStudent creates a student, assigns a registration number and
// issues its first token
func (s *Auther) RegisterStudent(ctx context.Context, msg RegisterStudentMessage) (*LoginResult, error) {
	student, err := s.registerStudent.Execute(ctx, msg)
	if err != nil {
		return nil, err
	}

	result, err := s.issue(student.Identity())
	if err != nil {
		return nil, err
	}
	result.RegistrationNumber = student.RegistrationNumber

	s.emitAuthEvent(ctx, ActivityEventRegistered, RoleStudent, result.User.idString(), map[string]any{
		"registration_number": student.RegistrationNumber,
	})
	return result, nil
}

// CreateStudent registers a student on behalf of an admin without issuing
// a token. An empty password is replaced by the configured default.
func (s *Auther) CreateStudent(ctx context.Context, msg RegisterStudentMessage) (*Student, error) {
	if msg.Password == "" {
		msg.Password = s.defaultPassword
	}
	return s.registerStudent.Execute(ctx, msg)
}

// Me loads the caller's own principal record. The role embedded in the
// token selects the table, it is never re-derived from storage.
func (s *Auther) Me(ctx context.Context, claims AuthClaims) (*Profile, error) {
	if claims == nil {
		return nil, ErrUnauthorized
	}

	id, err := strconv.ParseInt(claims.UserID(), 10, 64)
	if err != nil {
		return nil, repository.NotFound(claims.Role().displayName())
	}

	switch claims.Role() {
	case RoleAdmin:
		admin, err := s.repo.Admins().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Profile{Role: RoleAdmin, Admin: admin}, nil
	case RoleStudent:
		student, err := s.repo.Students().Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return &Profile{Role: RoleStudent, Student: student}, nil
	default:
		return nil, ErrForbidden
	}
}

func (s *Auther) issue(identity Identity) (*LoginResult, error) {
	token, err := s.tokenService.Generate(identity)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(identity.ID(), 10, 64)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "identity id is not numeric")
	}

	return &LoginResult{
		Token: token,
		User: AuthUser{
			ID:    id,
			Email: identity.Email(),
			Role:  identity.Role(),
			Name:  identity.Name(),
		},
	}, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, role Role, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Role:       role,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}
