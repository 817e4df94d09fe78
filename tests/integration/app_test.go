package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	contactapp "github.com/crm/backend/internal/application/contact"
	partnerapp "github.com/crm/backend/internal/application/partner"
	quoteapp "github.com/crm/backend/internal/application/quote"
	settingsapp "github.com/crm/backend/internal/application/settings"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/event"
	"github.com/crm/backend/internal/infrastructure/ledger"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/crm/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testAuthSecret    = "integration-secret-0123456789abcdef"
	testWebhookSecret = "lead-form-secret"
	testLedgerKey     = "fake-ledger-key"
)

// testApp is the fully wired API on top of PostgreSQL and a fake ledger
type testApp struct {
	DB     *TestDB
	Ledger *testutil.FakeLedger
	Events *testutil.RecordingHandler
	Engine *gin.Engine
	Admin  *testutil.APIClient
	Sales  *testutil.APIClient
	Anon   *testutil.APIClient
	Offers *quoteapp.OfferService
	Keys   *ledger.SettingsKeyProvider
	Lock   cache.CreationLock
	jwt    *auth.JWTService
}

type appOptions struct {
	// LedgerFallbackKey is used until a key is stored in the settings
	LedgerFallbackKey string
	Redis             config.RedisConfig
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	log := zaptest.NewLogger(t)
	db := NewTestDB(t)
	fake := testutil.NewFakeLedger(t, testLedgerKey)

	contactRepo := persistence.NewGormContactRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	requestRepo := persistence.NewGormQuoteRequestRepository(db.DB)
	offerRepo := persistence.NewGormOfferRepository(db.DB)
	appTypeRepo := persistence.NewGormApplicationTypeRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	keys := ledger.NewSettingsKeyProvider(settingsRepo, opts.LedgerFallbackKey, time.Minute, log)
	ledgerClient, err := ledger.NewClient(ledger.Config{BaseURL: fake.URL(), Timeout: 5 * time.Second}, keys, log)
	require.NoError(t, err)

	lock, closeLock, err := cache.NewCreationLock(context.Background(), opts.Redis, config.LockConfig{TTL: time.Minute, KeyPrefix: "crm:test:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeLock() })

	contacts := contactapp.NewContactService(contactRepo, partnerRepo, ledgerClient, log)
	partners := partnerapp.NewPartnerService(partnerRepo, log)
	requests := quoteapp.NewQuoteRequestService(requestRepo, offerRepo, contactRepo, log)
	offers := quoteapp.NewOfferService(offerRepo, requestRepo, contactRepo, appTypeRepo, ledgerClient, lock, log)
	appTypes := quoteapp.NewApplicationTypeService(appTypeRepo, offerRepo, log)
	settings := settingsapp.NewSettingsService(settingsRepo, keys, log)

	recorder := testutil.NewRecordingHandler()
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(recorder)
	bus.Subscribe(event.NewLogHandler(log))
	contacts.SetEventPublisher(bus)
	partners.SetEventPublisher(bus)
	requests.SetEventPublisher(bus)
	offers.SetEventPublisher(bus)

	authCfg := config.AuthConfig{Secret: testAuthSecret, Issuer: "crm-identity", AdminRole: "admin", Enabled: true}
	jwtService := auth.NewJWTService(authCfg)

	engine, err := router.NewEngine(router.Config{
		ServiceName: "crm-backend-test",
		Mode:        gin.TestMode,
		HTTP:        config.HTTPConfig{MaxBodySize: 1 << 20},
		Auth: middleware.AuthConfig{
			Authenticator: jwtService,
			Logger:        log,
		},
		AdminRole:     "admin",
		WebhookSecret: testWebhookSecret,
		Logger:        log,
	}, router.Handlers{
		Contact:         handler.NewContactHandler(contacts, log),
		Partner:         handler.NewPartnerHandler(partners, log),
		QuoteRequest:    handler.NewQuoteRequestHandler(requests, log),
		Offer:           handler.NewOfferHandler(offers, log),
		ApplicationType: handler.NewApplicationTypeHandler(appTypes, log),
		Settings:        handler.NewSettingsHandler(settings, log),
		Health: handler.NewHealthHandler("crm-backend-test", "test", map[string]handler.HealthCheck{
			"database": db.Ping,
		}),
	})
	require.NoError(t, err)

	app := &testApp{
		DB:     db,
		Ledger: fake,
		Events: recorder,
		Engine: engine,
		Offers: offers,
		Keys:   keys,
		Lock:   lock,
		jwt:    jwtService,
	}
	app.Admin = app.client(t, "admin-1", "admin")
	app.Sales = app.client(t, "sales-1", "sales")
	app.Anon = testutil.NewAPIClient(engine)
	return app
}

func (a *testApp) client(t *testing.T, subject string, roles ...string) *testutil.APIClient {
	t.Helper()
	token, err := a.jwt.Issue(auth.IssueInput{Subject: subject, Name: subject, Roles: roles})
	require.NoError(t, err)
	c := testutil.NewAPIClient(a.Engine)
	c.Token = token
	return c
}

// configureLedger stores the fake ledger's key through the settings API
func (a *testApp) configureLedger(t *testing.T) {
	t.Helper()
	s := testutil.RequireData[settingsapp.SettingsResponse](t, a.Admin.Do(t, http.MethodPut, "/api/v1/settings", map[string]any{
		"default_unit_price":          100,
		"default_tax_rate_percentage": 19,
		"default_offer_validity_days": 30,
		"ledger_api_key":              testLedgerKey,
		"imprint_url":                 "https://crm.example.com/imprint",
	}), http.StatusOK)
	require.True(t, s.LedgerConfigured)
}

// newRedisLock builds a lock as a separate service instance would
func newRedisLock(t *testing.T, redisCfg config.RedisConfig, lockCfg config.LockConfig) cache.CreationLock {
	t.Helper()
	lock, closeLock, err := cache.NewCreationLock(context.Background(), redisCfg, lockCfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeLock() })
	require.IsType(t, &cache.RedisCreationLock{}, lock, "Redis should be reachable")
	return lock
}
