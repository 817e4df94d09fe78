package router

import (
	"fmt"
	"net/http"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers mounted by NewEngine
type Handlers struct {
	Contact         *handler.ContactHandler
	Partner         *handler.PartnerHandler
	QuoteRequest    *handler.QuoteRequestHandler
	Offer           *handler.OfferHandler
	ApplicationType *handler.ApplicationTypeHandler
	Settings        *handler.SettingsHandler
	Health          *handler.HealthHandler
}

// Config configures the middleware chain of NewEngine
type Config struct {
	ServiceName   string
	Mode          string
	HTTP          config.HTTPConfig
	Swagger       bool
	Tracing       bool
	MeterProvider *telemetry.MeterProvider
	Auth          middleware.AuthConfig
	AdminRole     string
	WebhookSecret string
	// WebhookLimiter caps lead submissions per client. Nil leaves them unlimited.
	WebhookLimiter *middleware.RateLimiter
	Logger         *zap.Logger
}

// NewEngine builds the gin engine with the full middleware chain and all routes
func NewEngine(cfg Config, h Handlers) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
	)
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.Tracing,
		AdminRole:   cfg.AdminRole,
	})...)
	engine.Use(
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{MeterProvider: cfg.MeterProvider, Enabled: true}),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Live)
		engine.GET("/health/ready", h.Health.Ready)
	}
	if cfg.Swagger {
		registerSwagger(engine)
	}

	public := NewRouter(engine)
	for _, g := range publicGroups(cfg, h) {
		public.Register(g)
	}
	mounted := public.Setup()

	api := NewRouter(engine, WithMiddleware(middleware.Auth(cfg.Auth)))
	for _, g := range apiGroups(h) {
		api.Register(g)
	}
	mounted = append(mounted, api.Setup()...)

	perDomain := map[string]int{}
	for _, r := range mounted {
		perDomain[r.Domain]++
	}
	log.Debug("API routes mounted", zap.Int("routes", len(mounted)), zap.Any("per_domain", perDomain))

	return engine, nil
}

// publicGroups are reachable without a bearer token
func publicGroups(cfg Config, h Handlers) []RouteRegistrar {
	var groups []RouteRegistrar
	if h.Settings != nil {
		groups = append(groups, NewDomainGroup("public", "/public").
			GET("/legal-links", h.Settings.LegalLinks))
	}
	if h.Contact != nil {
		groups = append(groups, NewDomainGroup("webhooks", "/webhooks").
			Use(middleware.RateLimit(cfg.WebhookLimiter), middleware.WebhookSecret(cfg.WebhookSecret)).
			POST("/leads", h.Contact.WebhookLead))
	}
	return groups
}

func apiGroups(h Handlers) []RouteRegistrar {
	admin := middleware.RequireAdmin()
	var groups []RouteRegistrar

	if h.Health != nil {
		groups = append(groups, NewDomainGroup("system", "/system").
			GET("/info", h.Health.Info))
	}

	if h.Contact != nil {
		contacts := NewDomainGroup("contacts", "/contacts").
			GET("", h.Contact.List).
			POST("", h.Contact.Create).
			GET("/:id", h.Contact.GetByID).
			PUT("/:id", h.Contact.Update).
			DELETE("/:id", h.Contact.Delete).
			PATCH("/:id/billing-status", h.Contact.UpdateBillingStatus).
			POST("/:id/ledger", h.Contact.PushToLedger)
		if h.QuoteRequest != nil {
			contacts.GET("/:id/quote-requests", h.QuoteRequest.ListByContact)
		}
		if h.Offer != nil {
			contacts.POST("/:id/ledger-offers", h.Offer.LoadFromLedger)
		}
		groups = append(groups, contacts)
	}

	if h.Partner != nil {
		partners := NewDomainGroup("partners", "/partners").
			GET("", h.Partner.List).
			POST("", admin, h.Partner.Create).
			POST("/me", h.Partner.Onboard).
			GET("/code/:code", h.Partner.GetByCode).
			GET("/:id", h.Partner.GetByID).
			PUT("/:id", admin, h.Partner.Update).
			DELETE("/:id", admin, h.Partner.Delete)
		if h.Contact != nil {
			partners.GET("/code/:code/contacts", h.Contact.ListByPartner)
		}
		groups = append(groups, partners)
	}

	if h.QuoteRequest != nil {
		requests := NewDomainGroup("quote-requests", "/quote-requests").
			GET("", h.QuoteRequest.List).
			POST("", h.QuoteRequest.Create).
			GET("/:id", h.QuoteRequest.GetByID).
			PATCH("/:id/status", h.QuoteRequest.UpdateStatus).
			DELETE("/:id", h.QuoteRequest.Delete)
		if h.Offer != nil {
			requests.GET("/:id/offers", h.Offer.ListByQuoteRequest)
		}
		groups = append(groups, requests)
	}

	if h.Offer != nil {
		groups = append(groups,
			NewDomainGroup("offers", "/offers").
				GET("", h.Offer.List).
				POST("", h.Offer.Create).
				POST("/sync", admin, h.Offer.SyncAll).
				GET("/:id", h.Offer.GetByID).
				PUT("/:id", h.Offer.Update).
				DELETE("/:id", h.Offer.Delete).
				PATCH("/:id/status", h.Offer.UpdateStatus).
				PATCH("/:id/billing-status", h.Offer.UpdateBillingStatus).
				POST("/:id/sync", h.Offer.Sync),
			NewDomainGroup("articles", "/articles").
				GET("", h.Offer.ListArticles),
		)
	}

	if h.ApplicationType != nil {
		groups = append(groups, NewDomainGroup("application-types", "/application-types").
			GET("", h.ApplicationType.List).
			GET("/:id", h.ApplicationType.GetByID).
			POST("", admin, h.ApplicationType.Create).
			PUT("/:id", admin, h.ApplicationType.Update).
			DELETE("/:id", admin, h.ApplicationType.Delete))
	}

	if h.Settings != nil {
		groups = append(groups, NewDomainGroup("settings", "/settings").
			Use(admin).
			GET("", h.Settings.Get).
			PUT("", h.Settings.Update))
	}

	return groups
}
