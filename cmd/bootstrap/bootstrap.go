package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmalink/config"
	deliveryHttp "pharmalink/internal/delivery/http"
	"pharmalink/internal/delivery/http/handler"
	"pharmalink/internal/delivery/http/middleware"
	"pharmalink/internal/infrastructure/cache"
	"pharmalink/internal/infrastructure/database"
	"pharmalink/internal/metrics"
	"pharmalink/internal/realtime"
	"pharmalink/internal/repository"
	"pharmalink/internal/service"
	"pharmalink/internal/usecase"
	"pharmalink/pkg/jwt"
	"pharmalink/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const metricsNamespace = "pharmalink"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Broker      *realtime.Broker
	Relay       *realtime.RedisRelay
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry, metricsNamespace)

	// Realtime change feed
	app.Broker = realtime.NewBroker(cfg.Realtime.SubscriberBuffer, log, m)
	app.Relay = realtime.NewRedisRelay(redisClient, cfg.Realtime.Channel, app.Broker, log)

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, app.Broker, app.Relay, m, registry)

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	broker *realtime.Broker,
	publisher realtime.Publisher,
	m *metrics.Metrics,
	registry *prometheus.Registry,
) *http.Server {
	// Initialize JWT service and token store
	jwtService := jwt.NewJWTService(cfg.JWT)
	tokens := cache.NewRedisTokenStore(redisClient)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	authUserRepo := repository.NewAuthUserRepository()
	profileRepo := repository.NewProfileRepository()
	demandeRepo := repository.NewDemandeRepository()
	propositionRepo := repository.NewPropositionRepository()
	pharmacyRepo := repository.NewPharmacyRepository()
	gardeRepo := repository.NewPharmacyOnDutyRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	demandeLoader := service.NewDemandeLoader(db, demandeRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, authUserRepo, profileRepo, auditService, jwtService, tokens)
	demandeUsecase := usecase.NewDemandeUsecase(db, log, demandeRepo, propositionRepo, auditService, publisher, m)
	gardeUsecase := usecase.NewGardeUsecase(db, log, pharmacyRepo, gardeRepo, auditService, publisher, cfg.App.Location, time.Now)
	pharmacyUsecase := usecase.NewPharmacyUsecase(db, log, pharmacyRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokens)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.Realtime.AllowedOrigins)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	demandeHandler := handler.NewDemandeHandler(demandeUsecase, customValidator)
	gardeHandler := handler.NewGardeHandler(gardeUsecase, pharmacyUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	realtimeHandler := handler.NewRealtimeHandler(demandeLoader, broker, corsMiddleware, customValidator, log, m)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		demandeHandler,
		gardeHandler,
		auditLogHandler,
		realtimeHandler,
		metricsHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:         serverAddr,
		Handler:      httpRouter,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}
}

// Run starts the realtime relay and the HTTP server, and blocks until a
// shutdown signal or a fatal server error.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Relay.Start(ctx); err != nil {
		// local dispatch keeps this instance consistent without the relay
		app.Log.Warnf("Realtime relay unavailable, dispatching locally: %+v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")
		return app.shutdown()
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

func (app *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.App.ShutdownTimeout)
	defer cancel()

	// WebSocket sessions are hijacked and not tracked by Shutdown; closing
	// the broker ends their subscriptions.
	app.Relay.Stop()
	app.Broker.Close()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
