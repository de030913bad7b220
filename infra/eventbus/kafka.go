package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	GroupID     string
	TopicPrefix string
}

// KafkaEventBus publishes each event type to its own topic. Messages whose
// handlers fail are copied to <prefix>.dlq.<type> and committed.
type KafkaEventBus struct {
	brokers  []string
	writer   *kafka.Writer
	dialer   *kafka.Dialer
	config   KafkaEventBusConfig
	handlers *handlerSet
	logger   *slog.Logger

	topicsMtx sync.Mutex
	topics    map[string]struct{}

	readersMtx sync.Mutex
	readers    []*kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a Kafka-backed event bus.
// brokers is a comma separated list such as "localhost:9092,localhost:9093".
func NewWithKafka(brokers string, config KafkaEventBusConfig, logger *slog.Logger) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if config.GroupID == "" {
		config.GroupID = "ledger"
	}
	config.TopicPrefix = topicPrefix(config.TopicPrefix)

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	bus := &KafkaEventBus{
		brokers: parsed,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(parsed...),
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
		},
		dialer:   dialer,
		config:   config,
		handlers: newHandlerSet(),
		logger:   logger.With("bus", "kafka"),
		topics:   make(map[string]struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	conn, err := dialer.DialContext(ctx, "tcp", parsed[0])
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()

	bus.logger.Info("Kafka event bus initialized", "group_id", config.GroupID, "brokers", parsed)
	return bus, nil
}

// Emit publishes the event keyed by its owner so one user's events stay ordered.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encode(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	topic := topicNameFor(b.config.TopicPrefix, events.EventType(event.Type()))
	if err := b.ensureTopic(ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.Owner().String()),
		Value: envBytes,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Register adds handler for eventType, starting a reader on the first call.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	if !b.handlers.add(eventType, handler) {
		return
	}
	topic := topicNameFor(b.config.TopicPrefix, eventType)
	if err := b.ensureTopic(b.ctx, topic); err != nil {
		b.logger.Error("kafka ensure topic error", "error", err, "event_type", eventType)
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.config.GroupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		Dialer:      b.dialer,
	})
	b.readersMtx.Lock()
	b.readers = append(b.readers, reader)
	b.readersMtx.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(eventType, reader)
	}()
}

func (b *KafkaEventBus) consumeLoop(eventType events.EventType, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || b.ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "event_type", eventType)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if err := b.process(eventType, msg); err != nil {
			// Leave the offset uncommitted so the message is redelivered.
			b.logger.Error("kafka message processing failed", "error", err, "offset", msg.Offset)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		}
	}
}

func (b *KafkaEventBus) process(eventType events.EventType, msg kafka.Message) error {
	evt, err := decode(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode message", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return b.publishToDLQ(eventType, msg.Value)
	}
	if executeHandlers(b.ctx, b.logger, evt, b.handlers.get(eventType), fmt.Sprintf("%d", msg.Offset)) {
		return nil
	}
	return b.publishToDLQ(eventType, msg.Value)
}

func (b *KafkaEventBus) publishToDLQ(eventType events.EventType, raw []byte) error {
	topic := dlqTopicNameFor(b.config.TopicPrefix, eventType)
	if err := b.ensureTopic(b.ctx, topic); err != nil {
		return err
	}
	if err := b.writer.WriteMessages(b.ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(eventType.String()),
		Value: raw,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: dlq publish failed: %w", err)
	}
	b.logger.Warn("message sent to DLQ", "event_type", eventType, "dlq_topic", topic)
	return nil
}

func (b *KafkaEventBus) ensureTopic(ctx context.Context, topic string) error {
	b.topicsMtx.Lock()
	defer b.topicsMtx.Unlock()
	if _, ok := b.topics[topic]; ok {
		return nil
	}
	conn, err := b.dialer.DialContext(ctx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	err = conn.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("kafka event bus: create topic failed: %w", err)
	}
	b.topics[topic] = struct{}{}
	return nil
}

// Close stops readers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
