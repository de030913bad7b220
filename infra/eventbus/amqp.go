package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/rabbitmq/amqp091-go"
)

// AMQPEventBus publishes events to a durable topic exchange routed by event
// type. Each registered type gets a durable queue <queue>.<type> and a dead
// letter queue <queue>.<type>.dlq.
type AMQPEventBus struct {
	conn     *amqp091.Connection
	pubMu    sync.Mutex
	pub      *amqp091.Channel
	exchange string
	queue    string
	handlers *handlerSet
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithAMQP dials url and declares the exchange.
func NewWithAMQP(url, exchange, queue string, logger *slog.Logger) (*AMQPEventBus, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp event bus: dial: %w", err)
	}
	pub, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp event bus: open channel: %w", err)
	}
	if err := pub.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp event bus: declare exchange: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AMQPEventBus{
		conn:     conn,
		pub:      pub,
		exchange: exchange,
		queue:    queue,
		handlers: newHandlerSet(),
		logger:   logger.With("bus", "amqp"),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Emit publishes a persistent message routed by the event type.
func (b *AMQPEventBus) Emit(ctx context.Context, event events.Event) error {
	body, err := encode(event)
	if err != nil {
		return fmt.Errorf("amqp event bus: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b.pubMu.Lock()
	defer b.pubMu.Unlock()
	if err := b.pub.PublishWithContext(
		ctx,
		b.exchange,
		routingKeyFor(events.EventType(event.Type())),
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.Owner().String(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("amqp event bus: publish: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register adds handler for eventType, declaring and consuming its queue on
// the first call.
func (b *AMQPEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	if !b.handlers.add(eventType, handler) {
		return
	}
	ch, deliveries, err := b.subscribe(eventType)
	if err != nil {
		b.logger.Error("failed to subscribe", "error", err, "event_type", eventType)
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() { _ = ch.Close() }()
		b.consume(ch, eventType, deliveries)
	}()
}

func (b *AMQPEventBus) subscribe(eventType events.EventType) (*amqp091.Channel, <-chan amqp091.Delivery, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	queue := b.queueFor(eventType)
	for _, name := range []string{queue, queue + ".dlq"} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, nil, fmt.Errorf("declare queue %s: %w", name, err)
		}
	}
	if err := ch.QueueBind(queue, routingKeyFor(eventType), b.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, fmt.Errorf("start consuming: %w", err)
	}
	return ch, deliveries, nil
}

func (b *AMQPEventBus) consume(ch *amqp091.Channel, eventType events.EventType, deliveries <-chan amqp091.Delivery) {
	for {
		select {
		case <-b.ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			evt, err := decode(d.Body)
			if err == nil && executeHandlers(b.ctx, b.logger, evt, b.handlers.get(eventType), d.MessageId) {
				_ = d.Ack(false)
				continue
			}
			if err != nil {
				b.logger.Error("failed to decode message", "error", err, "event_type", eventType)
			}
			if dlqErr := ch.PublishWithContext(b.ctx, "", b.queueFor(eventType)+".dlq", false, false, amqp091.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp091.Persistent,
				Timestamp:    time.Now(),
				Body:         d.Body,
			}); dlqErr != nil {
				b.logger.Error("failed to push to DLQ", "error", dlqErr, "event_type", eventType)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (b *AMQPEventBus) queueFor(eventType events.EventType) string {
	return b.queue + "." + routingKeyFor(eventType)
}

func routingKeyFor(eventType events.EventType) string {
	return strings.ToLower(eventType.String())
}

// Close stops the consumers and closes the connection.
func (b *AMQPEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.conn.Close()
}

var _ eventbus.Bus = (*AMQPEventBus)(nil)
