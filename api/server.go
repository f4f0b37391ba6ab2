package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	enrollment "github.com/goliatone/go-enrollment"
	"github.com/goliatone/go-enrollment/middleware/jwtware"
	"github.com/goliatone/go-enrollment/registry"
	"github.com/yuin/goldmark"
)

// Server holds the HTTP handlers of the enrollment API
type Server struct {
	Logger     enrollment.Logger
	Auther     *enrollment.Auther
	Principals enrollment.RepositoryManager
	Registry   registry.Manager
	Registrar  *registry.Registrar
	Markdown   goldmark.Markdown
	Now        func() time.Time

	ContextKey  string
	TokenLookup string
	AuthScheme  string

	authRequired fiber.Handler
	adminOnly    fiber.Handler
}

type Option func(*Server) *Server

// WithLogger sets the logger used by the handlers
func WithLogger(logger enrollment.Logger) Option {
	return func(s *Server) *Server {
		if logger != nil {
			s.Logger = logger
		}
		return s
	}
}

// WithClock replaces the time source used for stamps and statistics
func WithClock(now func() time.Time) Option {
	return func(s *Server) *Server {
		if now != nil {
			s.Now = now
		}
		return s
	}
}

// WithTokenLookup configures where the token is read from, e.g.
// "header:Authorization,cookie:jwt"
func WithTokenLookup(lookup, scheme, contextKey string) Option {
	return func(s *Server) *Server {
		s.TokenLookup = lookup
		s.AuthScheme = scheme
		s.ContextKey = contextKey
		return s
	}
}

// WithRegistrar replaces the registrar built from the registry manager
func WithRegistrar(registrar *registry.Registrar) Option {
	return func(s *Server) *Server {
		if registrar != nil {
			s.Registrar = registrar
		}
		return s
	}
}

// NewServer wires the handlers over the auth core and the stores
func NewServer(auther *enrollment.Auther, principals enrollment.RepositoryManager, reg registry.Manager, opts ...Option) *Server {
	s := &Server{
		Logger:     nopLogger{},
		Auther:     auther,
		Principals: principals,
		Registry:   reg,
		Markdown:   goldmark.New(),
		Now:        time.Now,
	}

	for _, opt := range opts {
		s = opt(s)
	}

	if s.Auther == nil {
		panic("Missing Auther in api server...")
	}

	if s.Principals == nil || s.Registry == nil {
		panic("Missing repository manager in api server...")
	}

	if s.Registrar == nil {
		s.Registrar = registry.NewRegistrar(reg, "")
	}

	mw := jwtware.Config{
		TokenValidator: s.Auther.TokenService(),
		ErrorHandler:   ErrorHandler(s.Logger),
		ContextKey:     s.ContextKey,
		TokenLookup:    s.TokenLookup,
		AuthScheme:     s.AuthScheme,
	}
	s.authRequired = jwtware.New(mw)
	s.adminOnly = jwtware.AdminOnly(mw)

	return s
}

// NewApp returns a fiber app using the JSON error handler
func NewApp(logger enrollment.Logger, config ...fiber.Config) *fiber.App {
	cfg := fiber.Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.ErrorHandler = ErrorHandler(logger)
	return fiber.New(cfg)
}

// Register mounts every route under /api
func (s *Server) Register(app fiber.Router) {
	api := app.Group("/api")
	auth, admin := s.authRequired, s.adminOnly

	api.Post("/auth/admin/login", s.AdminLogin)
	api.Post("/auth/admin/register", s.AdminRegister)
	api.Post("/auth/student/login", s.StudentLogin)
	api.Post("/auth/student/register", s.StudentRegister)
	api.Get("/auth/me", auth, s.Me)

	api.Get("/students", auth, admin, s.ListStudents)
	api.Get("/students/:id", auth, s.GetStudent)
	api.Patch("/students/:id", auth, admin, s.UpdateStudent)
	api.Post("/students", auth, admin, s.CreateStudent)
	api.Get("/dashboard/stats", auth, admin, s.DashboardStats)
	api.Post("/admin/students/:id/payment", auth, admin, s.RecordPayment)
	api.Get("/admin/fee-records", auth, admin, s.FeeRecords)
	api.Get("/my-profile", auth, s.MyProfile)

	api.Get("/results", auth, s.ListResults)
	api.Get("/results/student/:studentId", auth, s.StudentResults)
	api.Post("/results", auth, admin, s.CreateResult)
	api.Patch("/results/:id", auth, admin, s.UpdateResult)

	api.Get("/admit-cards", auth, s.ListAdmitCards)
	api.Get("/admit-cards/student/:studentId", auth, s.StudentAdmitCards)
	api.Post("/admit-cards", auth, admin, s.CreateAdmitCard)
	api.Delete("/admit-cards/:id", auth, admin, s.DeleteAdmitCard)
	api.Get("/public/admit-card/:rollNumber", s.PublicAdmitCard)

	api.Get("/memberships", auth, admin, s.ListMemberships)
	api.Post("/memberships", s.CreateMembership)
	api.Patch("/memberships/:id", auth, admin, s.UpdateMembership)
	api.Get("/admin/membership-cards", auth, admin, s.ListMembershipCards)
	api.Post("/admin/membership-cards", auth, admin, s.CreateMembershipCard)
	api.Patch("/admin/membership-cards/:id", auth, admin, s.UpdateMembershipCard)
	api.Get("/my-membership-card", auth, s.MyMembershipCard)

	api.Get("/admin/menu", auth, admin, s.ListActiveMenu)
	api.Get("/admin/menu/all", auth, admin, s.ListMenu)
	api.Post("/admin/menu", auth, admin, s.CreateMenuItem)
	api.Patch("/admin/menu/:id", auth, admin, s.UpdateMenuItem)
	api.Delete("/admin/menu/:id", auth, admin, s.DeleteMenuItem)

	api.Get("/admin/settings", auth, admin, s.ListSettings)
	api.Get("/admin/settings/:key", auth, admin, s.GetSetting)
	api.Patch("/admin/settings/:key", auth, admin, s.UpsertSetting)
	api.Post("/admin/settings", auth, admin, s.CreateSetting)
	api.Get("/public/settings", s.ListSettings)

	api.Get("/admin/payment-config", auth, admin, s.ListPaymentConfigs)
	api.Get("/public/payment-config/:type", s.PublicPaymentConfigs)
	api.Post("/admin/payment-config", auth, admin, s.CreatePaymentConfig)
	api.Patch("/admin/payment-config/:id", auth, admin, s.UpdatePaymentConfig)
	api.Delete("/admin/payment-config/:id", auth, admin, s.DeletePaymentConfig)

	api.Get("/admin/content-sections", auth, admin, s.ListContentSections)
	api.Get("/public/content/:sectionKey", s.PublicContent)
	api.Post("/admin/content-sections", auth, admin, s.CreateContentSection)
	api.Patch("/admin/content-sections/:id", auth, admin, s.UpdateContentSection)
	api.Delete("/admin/content-sections/:id", auth, admin, s.DeleteContentSection)

	api.Get("/admin/volunteers", auth, admin, s.ListVolunteers)
	api.Post("/public/volunteer-apply", s.ApplyVolunteer)
	api.Patch("/admin/volunteers/:id", auth, admin, s.UpdateVolunteer)

	api.Get("/admin/fee-structures", auth, admin, s.ListFeeStructures)
	api.Get("/public/fee-structures", s.PublicFeeStructures)
	api.Post("/admin/fee-structures", auth, admin, s.CreateFeeStructure)
	api.Patch("/admin/fee-structures/:id", auth, admin, s.UpdateFeeStructure)

	api.Get("/admin/contact-inquiries", auth, admin, s.ListInquiries)
	api.Post("/public/contact", s.Contact)
	api.Patch("/admin/contact-inquiries/:id", auth, admin, s.UpdateInquiry)

	api.Get("/admin/pages", auth, admin, s.ListPages)
	api.Get("/public/pages/:slug", s.PublicPage)
	api.Post("/admin/pages", auth, admin, s.CreatePage)
	api.Patch("/admin/pages/:id", auth, admin, s.UpdatePage)
	api.Delete("/admin/pages/:id", auth, admin, s.DeletePage)
}

func (s *Server) claims(c *fiber.Ctx) enrollment.AuthClaims {
	return jwtware.Claims(c, s.ContextKey)
}
