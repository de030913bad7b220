package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus publishes each event type to its own Redis stream and consumes
// it through a consumer group. Failed deliveries go to <stream>-DLQ.
type RedisEventBus struct {
	client   *redis.Client
	prefix   string
	handlers *handlerSet
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis connects to url and returns a Redis Streams event bus.
// prefix is prepended to every stream and group name.
func NewWithRedis(url, prefix string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	return newRedisEventBus(client, prefix, logger), nil
}

func newRedisEventBus(client *redis.Client, prefix string, logger *slog.Logger) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:   client,
		prefix:   prefix,
		handlers: newHandlerSet(),
		logger:   logger.With("bus", "redis"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Emit appends the event to the stream for its type.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encode(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	stream := streamNameFor(b.prefix, events.EventType(event.Type()))
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type(), "stream", stream)
	return nil
}

// Register adds handler for eventType. The first registration for a type
// creates the consumer group and starts its read loop.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	if !b.handlers.add(eventType, handler) {
		return
	}
	stream := streamNameFor(b.prefix, eventType)
	group := groupNameFor(b.prefix, eventType)
	if err := b.client.XGroupCreateMkStream(b.ctx, stream, group, "0").Err(); err != nil &&
		err.Error() != "BUSYGROUP Consumer Group name already exists" {
		b.logger.Error("failed to create consumer group", "error", err, "stream", stream)
	}
	consumer := fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	b.logger.Info("registering handler", "event_type", eventType, "stream", stream, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, stream, group, consumer)
	}()
}

func (b *RedisEventBus) consume(eventType events.EventType, stream, group, consumer string) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if b.ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "stream", stream)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, s := range res {
			for _, msg := range s.Messages {
				b.handle(eventType, stream, group, msg)
			}
		}
	}
}

func (b *RedisEventBus) handle(eventType events.EventType, stream, group string, msg redis.XMessage) {
	raw, _ := msg.Values["event"].(string)
	evt, err := decode([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode message", "error", err, "msg_id", msg.ID)
		b.pushToDLQ(eventType, msg.Values)
	} else if !executeHandlers(b.ctx, b.logger, evt, b.handlers.get(eventType), msg.ID) {
		b.pushToDLQ(eventType, msg.Values)
	}
	if err := b.client.XAck(b.ctx, stream, group, msg.ID).Err(); err != nil {
		b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
	}
}

func (b *RedisEventBus) pushToDLQ(eventType events.EventType, values map[string]any) {
	dlq := dlqStreamName(b.prefix, eventType)
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: values}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlq)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq)
}

// Close stops the consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
