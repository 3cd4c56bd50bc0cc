package di

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/internal/handler"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/internal/service"
	"github.com/Keerthana22gh/pg-management-system/internal/session"
	"github.com/Keerthana22gh/pg-management-system/internal/storage"
	"github.com/Keerthana22gh/pg-management-system/migrations"
	"github.com/Keerthana22gh/pg-management-system/pkg/config"
	"github.com/Keerthana22gh/pg-management-system/pkg/database"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/middleware"
	pkgredis "github.com/Keerthana22gh/pg-management-system/pkg/redis"
	"github.com/Keerthana22gh/pg-management-system/pkg/saga"
	"github.com/Keerthana22gh/pg-management-system/pkg/telemetry"
)

// Container holds all dependencies of the server
type Container struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *telemetry.Metrics

	// Infrastructure
	DB       *database.PostgresDB
	Redis    *pkgredis.Client // nil with the memory session store
	Events   kafka.Publisher
	Blobs    storage.BlobStore
	Store    *repository.Store
	Sessions *session.Manager
	Audit    *middleware.AuditLogger

	// Services
	AuthService        service.AuthService
	TenantService      service.TenantService
	PaymentService     service.PaymentService
	MaintenanceService service.MaintenanceService
	VacateService      service.VacateService

	// Handlers
	HealthHandler      *handler.HealthHandler
	AuthHandler        *handler.AuthHandler
	TenantHandler      *handler.TenantHandler
	PaymentHandler     *handler.PaymentHandler
	MaintenanceHandler *handler.MaintenanceHandler
	VacateHandler      *handler.VacateHandler

	Router *gin.Engine

	closers []func()
}

// kafkaCheck adapts the producer's Ping to a readiness probe
type kafkaCheck struct{ p *kafka.Producer }

func (k kafkaCheck) HealthCheck(ctx context.Context) error { return k.p.Ping(ctx) }

// NewContainer connects every dependency and wires services and handlers.
// On error, whatever was already opened is closed.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Container{Config: cfg, Logger: log}
	if err := c.build(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) build(ctx context.Context) error {
	cfg, log := c.Config, c.Logger
	var err error

	checks := map[string]handler.HealthChecker{}

	if c.Metrics, err = telemetry.NewMetrics(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// PostgreSQL
	pgCfg := database.FromConfig(cfg.Database)
	if c.DB, err = database.NewPostgres(ctx, pgCfg); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	c.closers = append(c.closers, c.DB.Close)
	checks["postgres"] = c.DB
	log.Info("postgres connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.DBName))

	if cfg.Database.MigrateOnStart {
		if err = database.NewMigrator(pgCfg.DSN(), migrations.FS, ".").Up(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	c.Store = repository.NewStore(c.DB.Pool())

	// Sessions
	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		if c.Redis, err = pkgredis.NewClient(ctx, pkgredis.FromConfig(cfg.Redis)); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.closers = append(c.closers, func() { _ = c.Redis.Close() })
		checks["redis"] = c.Redis
		store = session.NewRedisStore(c.Redis)
	default:
		log.Warn("using in-memory session store; sessions are lost on restart")
		store = session.NewMemoryStore()
	}
	if c.Sessions, err = session.NewManager(session.FromConfig(cfg.Session), store, session.WithAccounts(c.Store.Users)); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}

	// Domain events
	c.Events = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, perr := kafka.NewProducer(kafka.FromConfig(cfg.Kafka))
		if perr != nil {
			return fmt.Errorf("kafka: %w", perr)
		}
		c.Events = producer
		checks["kafka"] = kafkaCheck{producer}
	}
	c.closers = append(c.closers, c.Events.Close)

	// Payment proofs
	switch cfg.Storage.Driver {
	case "s3":
		s3Store, serr := storage.NewS3Store(cfg.Storage)
		if serr != nil {
			return fmt.Errorf("storage: %w", serr)
		}
		c.Blobs = s3Store
		checks["storage"] = s3Store
	default:
		log.Warn("using in-memory blob store; uploaded proofs are lost on restart")
		c.Blobs = storage.NewMemoryStore(cfg.Storage.PublicBaseURL)
	}

	// Audit trail
	auditCfg := middleware.DefaultAuditConfig(repository.NewPostgresAuditRepository(c.DB.Pool()))
	auditCfg.Logger = log
	c.Audit = middleware.NewAuditLogger(auditCfg)
	c.closers = append(c.closers, func() {
		_ = c.Audit.Close()
		if n := c.Audit.Dropped(); n > 0 {
			log.Warn("audit entries dropped", zap.Int64("count", n))
		}
	})

	// Services
	hasher := service.NewPasswordHasher(0)
	repos := c.Store.Repositories

	c.AuthService = service.NewAuthService(repos.Users, c.Sessions, hasher, c.Metrics, log)
	c.TenantService = service.NewTenantService(repos, c.Store, hasher, c.Events, c.Metrics, log)
	c.PaymentService = service.NewPaymentService(
		repos, c.Store, c.Blobs, saga.NewExecutor(log),
		cfg.Storage.MaxUploadBytes, c.Events, c.Metrics, log,
	)
	c.MaintenanceService = service.NewMaintenanceService(repos, c.Store, c.Events, c.Metrics, log)
	c.VacateService = service.NewVacateService(repos, c.Store, c.Events, c.Metrics, log)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(checks, log)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}, log)
	c.TenantHandler = handler.NewTenantHandler(c.TenantService, log)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService, cfg.Storage.MaxUploadBytes, log)
	c.MaintenanceHandler = handler.NewMaintenanceHandler(c.MaintenanceService, log)
	c.VacateHandler = handler.NewVacateHandler(c.VacateService, log)

	c.Router = handler.NewRouter(&handler.RouterConfig{
		Auth:        c.AuthHandler,
		Tenants:     c.TenantHandler,
		Payments:    c.PaymentHandler,
		Maintenance: c.MaintenanceHandler,
		Vacate:      c.VacateHandler,
		Health:      c.HealthHandler,
		Session: &middleware.SessionConfig{
			CookieName:    cfg.Session.CookieName,
			Authenticator: c.Sessions,
			Logger:        log,
		},
		Audit:              c.Audit,
		Logger:             log,
		Metrics:            c.Metrics,
		MaxMultipartMemory: cfg.Storage.MaxUploadBytes,
	})

	return nil
}

// Close releases dependencies in reverse order of creation
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
