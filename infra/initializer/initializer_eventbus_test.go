package initializer

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/ledger/infra/cache"
	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/storage"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitEventBus_DefaultsToMemoryWhenNoExplicitDriver(t *testing.T) {
	cfg := &config.App{
		Redis:    &config.Redis{URL: "redis://localhost:6379/0"},
		EventBus: &config.EventBus{Driver: ""},
	}

	bus, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_NilConfigUsesMemory(t *testing.T) {
	bus, err := initEventBus(&config.App{}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitRedisRequiresURL(t *testing.T) {
	cfg := &config.App{
		Redis:    &config.Redis{URL: ""},
		EventBus: &config.EventBus{Driver: "redis"},
	}

	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_RedisConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := &config.App{
		Redis:    &config.Redis{URL: "redis://127.0.0.1:1"},
		EventBus: &config.EventBus{Driver: "redis"},
	}

	bus, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitKafkaRequiresBrokers(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka"},
		Kafka:    &config.Kafka{Brokers: ""},
	}

	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_KafkaConnectionErrorFallsBackToMemory(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "kafka"},
		Kafka:    &config.Kafka{Brokers: "127.0.0.1:1"},
	}

	bus, err := initEventBus(cfg, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
}

func TestInitEventBus_ExplicitAMQPRequiresURL(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "amqp"},
	}

	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitEventBus_UnsupportedDriverErrors(t *testing.T) {
	cfg := &config.App{
		EventBus: &config.EventBus{Driver: "nope"},
	}

	_, err := initEventBus(cfg, discardLogger())
	require.Error(t, err)
}

func TestInitCache(t *testing.T) {
	t.Run("disabled without config", func(t *testing.T) {
		c, err := initCache(&config.App{}, discardLogger())
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("memory driver", func(t *testing.T) {
		c, err := initCache(&config.App{Cache: &config.Cache{Driver: "memory", TTL: time.Minute}}, discardLogger())
		require.NoError(t, err)
		require.IsType(t, &infra_cache.MemoryNetWorthCache{}, c)
		_ = c.(io.Closer).Close()
	})

	t.Run("redis driver requires url", func(t *testing.T) {
		_, err := initCache(&config.App{Cache: &config.Cache{Driver: "redis"}}, discardLogger())
		require.Error(t, err)
	})

	t.Run("redis driver", func(t *testing.T) {
		c, err := initCache(&config.App{
			Cache: &config.Cache{Driver: "redis", TTL: time.Minute},
			Redis: &config.Redis{URL: "redis://127.0.0.1:1/0", KeyPrefix: "test:"},
		}, discardLogger())
		require.NoError(t, err)
		require.IsType(t, &infra_cache.RedisNetWorthCache{}, c)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := initCache(&config.App{Cache: &config.Cache{Driver: "memcached"}}, discardLogger())
		require.Error(t, err)
	})
}

func TestInitReportStore_FallsBackToMemory(t *testing.T) {
	store, err := initReportStore(&config.App{
		Server:  &config.Server{Scheme: "http", Host: "api.local", Port: 9000},
		Reports: &config.Reports{S3: &config.S3{}},
	}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &storage.MemoryStore{}, store)
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Log{Format: "json", Prefix: "[test]"})
	logger.Info("hello", "accountID", "abc")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"accountID":"abc"`)
}
