// Command bus_smoketest publishes one ledger event through the configured
// broker and waits for it to come back through a registered handler.
//
// Usage: EVENT_BUS_DRIVER=kafka go run ./scripts/bus_smoketest
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	infra_eventbus "github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	if err := runSmokeTest(); err != nil {
		slog.Error("smoke test failed", "error", err)
		os.Exit(1)
	}
}

func runSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	bus, err := openBus(cfg, logger)
	if err != nil {
		return err
	}
	if c, ok := bus.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	event := events.NewTransactionPosted(uuid.New(), uuid.New(), uuid.New(), decimal.RequireFromString("-12.50"), "EXPENSE")
	received := make(chan events.Event, 1)
	bus.Register(events.EventTypeTransactionPosted, func(_ context.Context, e events.Event) error {
		if p, ok := e.(*events.TransactionPosted); ok && p.ID == event.ID {
			select {
			case received <- e:
			default:
			}
		}
		return nil
	})

	if err := bus.Emit(ctx, event); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	logger.Info("event published", "driver", cfg.EventBus.Driver, "event_id", event.ID)

	select {
	case e := <-received:
		logger.Info("event consumed", "type", e.Type(), "owner", e.Owner())
		return nil
	case <-ctx.Done():
		return errors.New("timed out waiting for the event")
	}
}

func openBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	switch cfg.EventBus.Driver {
	case "kafka":
		return infra_eventbus.NewWithKafka(cfg.Kafka.Brokers, infra_eventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID + "-smoketest",
			TopicPrefix: cfg.Kafka.TopicPrefix,
		}, logger)
	case "redis":
		return infra_eventbus.NewWithRedis(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
	case "amqp":
		return infra_eventbus.NewWithAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue+"-smoketest", logger)
	default:
		return infra_eventbus.NewWithMemory(logger), nil
	}
}
