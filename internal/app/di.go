// Package app provides the dependency injection container assembling the
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/thorsten-l/l9g-accountinfo/internal/config"
	"github.com/thorsten-l/l9g-accountinfo/internal/database"
	internalHTTP "github.com/thorsten-l/l9g-accountinfo/internal/http"
	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"

	authService "github.com/thorsten-l/l9g-accountinfo/internal/auth/service"
	cryptoDomain "github.com/thorsten-l/l9g-accountinfo/internal/crypto/domain"
	cryptoService "github.com/thorsten-l/l9g-accountinfo/internal/crypto/service"
	padHTTP "github.com/thorsten-l/l9g-accountinfo/internal/pad/http"
	padService "github.com/thorsten-l/l9g-accountinfo/internal/pad/service"
	padUseCase "github.com/thorsten-l/l9g-accountinfo/internal/pad/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/push"
	"github.com/thorsten-l/l9g-accountinfo/internal/rendezvous"
	storeUseCase "github.com/thorsten-l/l9g-accountinfo/internal/secretstore/usecase"
	"github.com/thorsten-l/l9g-accountinfo/internal/session"
	sessionHTTP "github.com/thorsten-l/l9g-accountinfo/internal/session/http"
)

// Container holds all application dependencies and provides methods to
// access them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	masterKey   *cryptoDomain.MasterKey
	aeadManager cryptoService.AEADManager
	kmsService  cryptoService.KMSService
	sealer      cryptoService.Sealer

	// Record store
	recordRepo    storeUseCase.RecordRepository
	blobStore     storeUseCase.BlobStore
	recordUseCase storeUseCase.RecordUseCase

	// Pad subsystem
	keyGenerator     padService.KeyGenerator
	envelopeVerifier authService.EnvelopeVerifier
	padUseCase       padUseCase.PadUseCase
	authService      *authService.AuthService
	broker           *rendezvous.Broker
	hub              *push.Hub
	sessionStore     *session.Store

	// Servers
	httpServer    *internalHTTP.Server
	metricsServer *internalHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	masterKeyInit        sync.Once
	aeadManagerInit      sync.Once
	kmsServiceInit       sync.Once
	sealerInit           sync.Once
	recordRepoInit       sync.Once
	blobStoreInit        sync.Once
	recordUseCaseInit    sync.Once
	keyGeneratorInit     sync.Once
	envelopeVerifierInit sync.Once
	padUseCaseInit       sync.Once
	authServiceInit      sync.Once
	brokerInit           sync.Once
	hubInit              sync.Once
	sessionStoreInit     sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the
// provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder
// is returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*internalHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*internalHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			err = providerErr
			c.initErrors["metricsServer"] = providerErr
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = internalHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.broker != nil {
		c.broker.Close()
	}

	if c.hub != nil {
		c.hub.Close()
	}

	if c.sessionStore != nil {
		c.sessionStore.Stop()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.masterKey != nil {
		c.masterKey.Close()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the API server with all route registrars.
func (c *Container) initHTTPServer() (*internalHTTP.Server, error) {
	logger := c.Logger()

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	padHandler, err := c.PadHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get pad handler for http server: %w", err)
	}

	deviceHandler, err := c.DeviceHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get device handler for http server: %w", err)
	}

	logoutHandler, err := c.LogoutHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get logout handler for http server: %w", err)
	}

	return internalHTTP.NewServer(
		c.config,
		logger,
		provider,
		padHandler,
		deviceHandler,
		logoutHandler,
	), nil
}

// PadHandler returns the desk-side HTTP handler.
func (c *Container) PadHandler() (*padHTTP.PadHandler, error) {
	pads, err := c.PadUseCase()
	if err != nil {
		return nil, err
	}
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, err
	}
	broker, err := c.Broker()
	if err != nil {
		return nil, err
	}
	hub, err := c.Hub()
	if err != nil {
		return nil, err
	}

	return padHTTP.NewPadHandler(
		pads,
		records,
		broker,
		hub,
		c.SessionStore(),
		c.config.BaseURL,
		c.Logger(),
	), nil
}

// DeviceHandler returns the device-side HTTP handler.
func (c *Container) DeviceHandler() (*padHTTP.DeviceHandler, error) {
	auth, err := c.AuthService()
	if err != nil {
		return nil, err
	}
	pads, err := c.PadUseCase()
	if err != nil {
		return nil, err
	}
	records, err := c.RecordUseCase()
	if err != nil {
		return nil, err
	}
	broker, err := c.Broker()
	if err != nil {
		return nil, err
	}
	hub, err := c.Hub()
	if err != nil {
		return nil, err
	}

	return padHTTP.NewDeviceHandler(auth, pads, records, broker, hub, c.Logger()), nil
}

// LogoutHandler returns the backchannel logout handler.
func (c *Container) LogoutHandler() (*sessionHTTP.LogoutHandler, error) {
	hub, err := c.Hub()
	if err != nil {
		return nil, err
	}
	return sessionHTTP.NewLogoutHandler(c.SessionStore(), hub, c.Logger()), nil
}
