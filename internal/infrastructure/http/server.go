package http

import (
	"context"
	"fmt"
	"net/http"

	handlers "github.com/Aguti1902/agutidesigns-ai-sub001/internal/adapter/handler/http"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/adapter/messaging"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/adapter/repository"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/config"
	infraBilling "github.com/Aguti1902/agutidesigns-ai-sub001/internal/infrastructure/billing"
	"github.com/Aguti1902/agutidesigns-ai-sub001/internal/usecase"
	"github.com/Aguti1902/agutidesigns-ai-sub001/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requestValidator adapts go-playground/validator to echo's Validator hook.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	db     *gorm.DB
}

func NewServer(cfg *config.Config, log *zap.Logger, db *gorm.DB) *Server {
	e := echo.New()
	e.HideBanner = true

	// Initialize Stripe
	stripe.Key = cfg.Stripe.SecretKey

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	// Handlers are unauthenticated at the transport layer; preflight is
	// answered uniformly with permissive headers.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Validator = &requestValidator{validate: validator.New()}

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		db:     db,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Shared collaborators
	profileRepo := repository.NewSupabaseProfileRepository(
		s.config.Supabase.ProjectURL,
		s.config.Supabase.ServiceRoleKey,
		s.logger,
	)
	eventRepo := repository.NewWebhookEventRepository(s.db, s.logger)
	gateway := infraBilling.NewStripeGateway(s.logger)
	bridge := messaging.NewEvolutionClient(
		s.config.Bridge.BaseURL,
		s.config.Bridge.APIKey,
		s.logger,
	)

	// Usecases
	reconciler := usecase.NewReconciler(profileRepo, s.logger)
	addonService := usecase.NewAddonService(profileRepo, gateway, s.logger)
	sweepService := usecase.NewSweepService(profileRepo, gateway, &s.config.Stripe, s.logger)
	infoService := usecase.NewCustomerInfoService(profileRepo, gateway, s.logger)

	// Handlers
	checkoutHandler := handlers.NewCheckoutHandler(s.logger, gateway, &s.config.Service)
	webhookHandler := handlers.NewWebhookHandler(s.logger, s.config.Stripe.WebhookSecret, reconciler, eventRepo)
	addonHandler := handlers.NewAddonHandler(s.logger, addonService)
	sweepHandler := handlers.NewSweepHandler(s.logger, sweepService)
	customerHandler := handlers.NewCustomerHandler(s.logger, infoService)
	connectionHandler := handlers.NewConnectionHandler(s.logger, bridge)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	v1.POST("/checkout/session", checkoutHandler.CreateSession)
	v1.POST("/checkout/portal", checkoutHandler.CreatePortalSession)

	v1.POST("/addons", addonHandler.Mutate)

	v1.POST("/maintenance/cleanup", sweepHandler.Run)

	v1.GET("/customers/:userId/billing", customerHandler.GetBillingInfo)

	v1.GET("/whatsapp/:instance/status", connectionHandler.GetStatus)
	v1.POST("/whatsapp/:instance/connect", connectionHandler.Connect)
	v1.DELETE("/whatsapp/:instance", connectionHandler.Disconnect)

	// Webhook route (outside API versioning)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
}
