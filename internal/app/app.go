package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisClient "github.com/redis/go-redis/v9"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/backend"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/handler/http"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/mq"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/postgres"
	promadapter "github.com/sm8ta/webike_rental_storefront/internal/adapter/prometheus"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/redis"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/tracing"
	"github.com/sm8ta/webike_rental_storefront/internal/config"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
	"github.com/sm8ta/webike_rental_storefront/internal/core/validation"
)

type App struct {
	Config         *config.Container
	Logger         ports.LoggerPort
	DB             *sql.DB
	RedisClient    *redisClient.Client
	RedisAdapter   ports.CachePort
	Publisher      *mq.Publisher
	Sessions       *postgres.SessionRepository
	Registry       *services.Registry
	HTTPRouter     *http.Router
	shutdownTracer func(context.Context) error

	// background loops started by Run stop when Stop cancels ctx
	ctx    context.Context
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Tracing
	shutdownTracer, err := tracing.Init(ctx, cfg.App.Name, cfg.App.Env, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}

	// Set redis
	redisConn, err := redis.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		shutdownTracer(ctx)
		return nil, err
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect DB
	db, err := postgres.Open(ctx, cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
	if err != nil {
		redisConn.Close()
		shutdownTracer(ctx)
		return nil, err
	}

	// Migrate DB
	if err := postgres.Migrate(db, cfg.DB.MigrationsPath); err != nil {
		db.Close()
		redisConn.Close()
		shutdownTracer(ctx)
		return nil, err
	}

	// Events
	var (
		publisher *mq.Publisher
		events    ports.EventPublisher
	)
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.App.Name)
		if err != nil {
			db.Close()
			redisConn.Close()
			shutdownTracer(ctx)
			return nil, err
		}
		events = publisher
	} else {
		loggerAdapter.Warn("MQ_URL not set, booking events are not published", nil)
	}

	// Validate
	validate := validation.New()

	// Observability
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := promadapter.NewPrometheusAdapter(registry)

	// Backend client
	backendClient := backend.NewHTTP(
		cfg.Backend.Host,
		cfg.Backend.BasePath,
		cfg.Backend.Scheme,
		cfg.Backend.Timeout,
		loggerAdapter,
		metrics,
	)

	// Repositories
	sessionRepo := postgres.NewSessionRepository(db)

	// Services
	catalogService := services.NewCatalogService(backendClient, cacheAdapter, loggerAdapter, cfg.Redis.CatalogTTL)
	adminService := services.NewAdminService(backendClient, catalogService, loggerAdapter, validate)
	workspaces := services.NewRegistry(services.WorkspaceDeps{
		Catalog:  catalogService,
		Auth:     backendClient,
		Users:    backendClient,
		Bookings: backendClient,
		Sessions: sessionRepo,
		Events:   events,
		Validate: validate,
		Logger:   loggerAdapter,
	}, cfg.Workspace.IdleTTL)

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, loggerAdapter)
	cookies := http.CookieConfig{
		MaxAge: int(cfg.Token.Duration.Seconds()),
		Secure: cfg.App.Env == "production",
		Domain: cfg.HTTP.CookieDomain,
	}
	handlers := http.Handlers{
		Auth:      http.NewAuthHandler(tokenService, cookies, loggerAdapter, metrics),
		Catalog:   http.NewCatalogHandler(catalogService, loggerAdapter, metrics),
		Wizard:    http.NewWizardHandler(catalogService, loggerAdapter, metrics),
		Bookings:  http.NewBookingHandler(loggerAdapter, metrics),
		Dashboard: http.NewDashboardHandler(adminService, loggerAdapter, metrics),
	}

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		workspaces,
		cookies,
		registry,
		loggerAdapter,
		handlers,
	)
	if err != nil {
		if publisher != nil {
			publisher.Close()
		}
		db.Close()
		redisConn.Close()
		shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:            bgCtx,
		cancel:         cancel,
		Config:         cfg,
		Logger:         loggerAdapter,
		DB:             db,
		RedisClient:    redisConn,
		RedisAdapter:   cacheAdapter,
		Publisher:      publisher,
		Sessions:       sessionRepo,
		Registry:       workspaces,
		HTTPRouter:     router,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Runs all services
func (a *App) Run() error {
	go a.Registry.Run(a.ctx, a.Config.Workspace.SweepInterval)
	go a.pruneSessions(a.ctx)

	listenAddr := a.Config.HTTP.ListenAddr()
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// pruneSessions drops persisted sessions older than the visitor cookie.
func (a *App) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Sessions.DeleteStale(ctx, time.Now().Add(-a.Config.Token.Duration))
			if err != nil {
				a.Logger.Warn("Failed to prune sessions", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if n > 0 {
				a.Logger.Info("Pruned stale sessions", map[string]interface{}{
					"count": n,
				})
			}
		}
	}
}

// Stops all services
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	if err := a.HTTPRouter.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}
	a.cancel()

	// Close publisher
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Error("MQ close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.shutdownTracer(ctx); err != nil {
		a.Logger.Error("Tracer shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
