// Package server assembles the HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"styledeco/internal/config"
	"styledeco/internal/database"
	"styledeco/internal/domain"
	"styledeco/internal/middleware"
	"styledeco/internal/modules/admin"
	"styledeco/internal/modules/analytics"
	"styledeco/internal/modules/assignment"
	"styledeco/internal/modules/booking"
	"styledeco/internal/modules/catalog"
	"styledeco/internal/modules/identity"
	"styledeco/internal/modules/payment"
	"styledeco/internal/pkg/cache"
	"styledeco/internal/pkg/events"
	"styledeco/internal/pkg/jwt"
	"styledeco/internal/pkg/notify"
	"styledeco/internal/pkg/response"
	pkgvalidator "styledeco/internal/pkg/validator"
	"styledeco/internal/repository"
)

// Deps are the process-wide collaborators built in main. Optional fields fall
// back to local implementations.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Logger    *zap.Logger
	Cache     cache.Client
	Processor payment.Processor
	SMS       notify.SMSSender
	// External verifies third-party ID tokens in addition to session JWTs.
	External identity.SessionVerifier
}

type Server struct {
	Engine *gin.Engine
	Hub    *events.Hub
}

func New(d Deps) (*Server, error) {
	cfg, log := d.Config, d.Logger
	if d.Cache == nil {
		d.Cache = cache.NewMemory()
	}
	if d.SMS == nil {
		d.SMS = notify.Noop{}
	}
	if d.Processor == nil {
		d.Processor = payment.Unconfigured{}
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		pkgvalidator.RegisterTypes(v)
	}

	userRepo := repository.NewUserRepository(d.DB)
	serviceRepo := repository.NewServiceRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)
	bookingRepo := repository.NewBookingRepository(d.DB)
	paymentRepo := repository.NewPaymentRepository(d.DB)

	reporting, err := database.SQLX(d.DB)
	if err != nil {
		return nil, err
	}
	analyticsRepo := repository.NewAnalyticsRepository(reporting)

	sessions := jwt.New(cfg.JWTSecret, cfg.JWTTTL, jwt.AudienceSession)
	adminTokens := jwt.New(cfg.AdminTokenSecret, cfg.AdminTokenTTL, jwt.AudienceAdmin)

	var verifier identity.SessionVerifier = identity.NewJWTVerifier(sessions)
	if d.External != nil {
		verifier = identity.ChainVerifier{verifier, d.External}
	}

	hub := events.NewHub(canSee, log.Named("events"))

	identityService := identity.NewService(userRepo, sessions, adminTokens, verifier,
		identity.AdminCredentials{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash},
		log.Named("identity"))
	catalogService := catalog.NewService(serviceRepo, reviewRepo, log.Named("catalog"))
	bookingService := booking.NewService(bookingRepo, serviceRepo, hub, log.Named("booking"))
	assignmentService := assignment.NewService(bookingRepo, userRepo, d.SMS, hub, log.Named("assignment"))
	paymentService := payment.NewService(paymentRepo, bookingRepo, bookingService, d.Processor, hub,
		cfg.PaymentTimeout, log.Named("payment"))
	analyticsService := analytics.NewService(analyticsRepo, d.Cache, cfg.AnalyticsCacheTTL, log.Named("analytics"))
	adminService := admin.NewService(userRepo, log.Named("admin"))

	identityHandler := identity.NewHandler(identityService)
	eventsHandler := events.NewHandler(hub, identityService, cfg.CORSAllowedOrigins, log.Named("events"))

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.GET("/health", health(d.DB))
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})

	// Processor retries come from shared addresses and must not be throttled.
	paymentHandler := payment.NewHandler(paymentService)
	paymentHandler.RegisterWebhookRoutes(r)

	limited := r.Group("", middleware.RateLimit(d.Cache, cfg.RateLimitMax, cfg.RateLimitWindow, log))
	limited.GET("/ws/events", eventsHandler.Subscribe)

	api := limited.Group("", middleware.ResolvePrincipal(identityService))
	{
		identityHandler.RegisterPublicRoutes(api)
		identityHandler.RegisterProtectedRoutes(api.Group("", middleware.RequirePrincipal()))

		catalog.NewHandler(catalogService).RegisterRoutes(api)
		booking.NewHandler(bookingService).RegisterRoutes(api)
		assignment.NewHandler(assignmentService).RegisterRoutes(api)
		paymentHandler.RegisterRoutes(api)
		analytics.NewHandler(analyticsService).RegisterRoutes(api)
		admin.NewHandler(adminService).RegisterRoutes(api)
	}

	return &Server{Engine: r, Hub: hub}, nil
}

// canSee applies the booking read rule to pushed events.
func canSee(p domain.Principal, e events.Event) bool {
	res := identity.Resource{OwnerEmail: e.UserEmail}
	if e.DecoratorEmail != nil {
		res.DecoratorEmail = *e.DecoratorEmail
	}
	return identity.CanSee(p, res)
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
