package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/ledger/infra"
	infra_cache "github.com/amirasaad/ledger/infra/cache"
	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	infra_repository "github.com/amirasaad/ledger/infra/repository"
	"github.com/amirasaad/ledger/infra/storage"
	"github.com/amirasaad/ledger/internal/migrations"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/amirasaad/ledger/pkg/report"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitializeDependencies initializes all the application dependencies.
// The returned closer releases broker and cache connections.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	closer func() error,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger
	var closers []io.Closer

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := migrate(db); err != nil {
			return nil, nil, err
		}
		logger.Info("Database migrations applied")
	}
	deps.Uow = infra_repository.NewUoW(db)

	deps.EventBus, err = initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := deps.EventBus.(io.Closer); ok {
		closers = append(closers, c)
	}

	deps.Cache, err = initCache(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := deps.Cache.(io.Closer); ok {
		closers = append(closers, c)
	}

	deps.ReportStore, err = initReportStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	closer = func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		if sqlDB, err := db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
		return errors.Join(errs...)
	}
	return deps, closer, nil
}

func migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return migrations.Up(sqlDB)
}

// initEventBus selects the bus driver. A broker that cannot be reached at
// startup degrades to the in-process bus so the API stays available.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := ""
	if cfg.EventBus != nil {
		driver = cfg.EventBus.Driver
	}
	switch driver {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, errors.New("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if cfg.Kafka == nil || cfg.Kafka.Brokers == "" {
			return nil, errors.New("kafka event bus requires KAFKA_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka.Brokers, infra_eventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.TopicPrefix,
		}, logger)
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "amqp":
		if cfg.AMQP == nil || cfg.AMQP.URL == "" {
			return nil, errors.New("amqp event bus requires AMQP_URL")
		}
		bus, err := infra_eventbus.NewWithAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.Warn("AMQP event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

// initCache returns nil when caching is disabled.
func initCache(cfg *config.App, logger *slog.Logger) (cache.NetWorthCache, error) {
	if cfg.Cache == nil {
		return nil, nil
	}
	switch cfg.Cache.Driver {
	case "", "memory":
		return infra_cache.NewMemoryNetWorthCache(cfg.Cache.TTL), nil
	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, errors.New("redis cache requires REDIS_URL")
		}
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		opt.PoolSize = cfg.Redis.PoolSize
		opt.DialTimeout = cfg.Redis.DialTimeout
		opt.ReadTimeout = cfg.Redis.ReadTimeout
		opt.WriteTimeout = cfg.Redis.WriteTimeout
		return infra_cache.NewRedisNetWorthCache(opt, cfg.Redis.KeyPrefix, logger), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

// initReportStore uses S3 when a bucket is configured and keeps reports in
// process otherwise.
func initReportStore(cfg *config.App, logger *slog.Logger) (report.Store, error) {
	if cfg.Reports == nil || cfg.Reports.S3 == nil || cfg.Reports.S3.Bucket == "" {
		logger.Warn("REPORTS_S3_BUCKET not set; reports are kept in memory")
		base := "http://localhost/reports"
		if cfg.Server != nil {
			base = fmt.Sprintf("%s://%s:%d/reports", cfg.Server.Scheme, cfg.Server.Host, cfg.Server.Port)
		}
		return storage.NewMemoryStore(base), nil
	}
	return storage.NewS3Store(context.Background(), cfg.Reports.S3, logger)
}
