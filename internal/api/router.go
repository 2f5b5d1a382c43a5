package api

import (
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hyperlocal/community/docs"
	"github.com/hyperlocal/community/internal/api/handler"
	"github.com/hyperlocal/community/internal/api/middleware"
	"github.com/hyperlocal/community/internal/api/session"
	"github.com/hyperlocal/community/internal/core/policy"
	"github.com/hyperlocal/community/internal/core/ports"
	"github.com/hyperlocal/community/internal/infrastructure/http/handlers"
	"github.com/hyperlocal/community/internal/pkg/config"
)

// Services are the use cases the HTTP layer drives.
type Services struct {
	Auth       ports.AuthService
	Notices    ports.NoticeService
	Requests   ports.RequestService
	Chat       ports.ChatService
	Profiles   ports.ProfileService
	Dashboards ports.DashboardService
}

// RouterDeps groups everything NewRouter wires together.
type RouterDeps struct {
	Config   *config.Config
	Log      zerolog.Logger
	Services Services
	Sessions *scs.SessionManager
	Renderer echo.Renderer
	Checks   map[string]handlers.Check
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d RouterDeps) *echo.Echo {
	cfg := d.Config

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, cfg.AppName)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(cfg.MaxContentLength))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "community",
		Subsystem:  "http",
		Registerer: registerer,
	}))
	e.Use(middleware.CSRF(middleware.CSRFConfig{
		Secret:    cfg.SecretKey,
		SkipPaths: []string{"/api/auth/token"},
	}, d.Log))
	e.Use(session.Middleware(d.Sessions))
	e.Use(middleware.Identity(d.Services.Auth, d.Sessions, d.Log))
	e.Use(middleware.RequestLogger(d.Log))

	// --- Dependencies ---
	base := handler.NewBase(d.Sessions, cfg.AppName, d.Log)
	authHandler := handler.NewAuthHandler(base, d.Services.Auth, cfg.TokenTTL)
	dashboardHandler := handler.NewDashboardHandler(base, d.Services.Dashboards)
	noticeHandler := handler.NewNoticeHandler(base, d.Services.Notices)
	requestHandler := handler.NewRequestHandler(base, d.Services.Requests)
	chatHandler := handler.NewChatHandler(base, d.Services.Chat, cfg.Chat.MaxLength)
	profileHandler := handler.NewProfileHandler(base, d.Services.Profiles)

	sm := d.Sessions
	credentialLimit := middleware.CredentialRateLimit(cfg.Limits.LoginPerMinute)
	signedIn := middleware.RequireUser(sm)

	// --- Public pages ---
	e.GET("/", authHandler.Index)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login, credentialLimit)
	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register, credentialLimit)
	e.GET("/logout", authHandler.Logout)

	// --- Resident pages ---
	e.GET("/dashboard", dashboardHandler.Dashboard, signedIn)
	e.GET("/notices", noticeHandler.List, middleware.Require(sm, policy.ReadNotices))
	e.GET("/service_requests", requestHandler.List, middleware.Require(sm, policy.SubmitRequest))
	e.POST("/service_requests", requestHandler.Submit, middleware.Require(sm, policy.SubmitRequest))
	e.GET("/chat", chatHandler.Show, middleware.Require(sm, policy.ReadChat))
	e.POST("/chat", chatHandler.Post, middleware.Require(sm, policy.PostChat))
	e.POST("/delete_message/:id", chatHandler.Delete, signedIn)
	e.GET("/profile", profileHandler.Show, middleware.Require(sm, policy.ReadProfile))
	e.POST("/profile", profileHandler.Update, middleware.Require(sm, policy.UpdateProfile))

	// --- Secretary pages ---
	sec := e.Group("/secretary")
	sec.GET("", dashboardHandler.Secretary, middleware.Require(sm, policy.ViewDashboardCounts))
	sec.GET("/post_notice", noticeHandler.PostPage, middleware.Require(sm, policy.PostNotice))
	sec.POST("/post_notice", noticeHandler.Post, middleware.Require(sm, policy.PostNotice))
	sec.GET("/notices", noticeHandler.Manage, middleware.Require(sm, policy.PostNotice))
	sec.GET("/requests", requestHandler.Manage, middleware.Require(sm, policy.ListAllRequests))
	sec.POST("/update_request_status", requestHandler.UpdateStatus, middleware.RequireAPI(policy.SetRequestStatus))
	sec.GET("/users", dashboardHandler.Users, middleware.Require(sm, policy.ListResidents))
	sec.POST("/delete_notice/:id", noticeHandler.Delete, middleware.Require(sm, policy.DeleteNotice))

	// --- JSON API ---
	e.POST("/api/auth/token", authHandler.Token, credentialLimit)

	// --- Operations (no auth required) ---
	healthHandler := handlers.NewHealthHandler(cfg.AppVersion)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
