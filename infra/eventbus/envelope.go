package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// envelope is the wire format shared by every broker-backed bus.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return envBytes, nil
}

// decode rebuilds a typed event from an envelope. Unknown types are an error so
// callers can route the raw message to a dead letter queue.
func decode(raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	constructor, ok := events.EventTypes[events.EventType(env.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return evt, nil
}

// executeHandlers runs every handler concurrently and reports whether all of
// them succeeded. Panics count as failures.
func executeHandlers(
	ctx context.Context,
	logger *slog.Logger,
	evt events.Event,
	handlers []eventbus.HandlerFunc,
	msgID string,
) bool {
	var wg sync.WaitGroup
	var mu sync.Mutex
	success := true

	for _, handler := range handlers {
		wg.Add(1)
		go func(h eventbus.HandlerFunc) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					success = false
					mu.Unlock()
					logger.Error("handler panic recovered", "panic", r, "event_type", evt.Type(), "msg_id", msgID)
				}
			}()
			if err := h(ctx, evt); err != nil {
				mu.Lock()
				success = false
				mu.Unlock()
				logger.Error("handler error", "error", err, "event_type", evt.Type(), "msg_id", msgID)
			}
		}(handler)
	}

	wg.Wait()
	return success
}

// handlerSet is the registration table shared by the broker-backed buses.
type handlerSet struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]eventbus.HandlerFunc
}

func newHandlerSet() *handlerSet {
	return &handlerSet{handlers: make(map[events.EventType][]eventbus.HandlerFunc)}
}

// add registers handler and reports whether it is the first for eventType.
func (h *handlerSet) add(eventType events.EventType, handler eventbus.HandlerFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	first := len(h.handlers[eventType]) == 0
	h.handlers[eventType] = append(h.handlers[eventType], handler)
	return first
}

func (h *handlerSet) get(eventType events.EventType) []eventbus.HandlerFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]eventbus.HandlerFunc, len(h.handlers[eventType]))
	copy(out, h.handlers[eventType])
	return out
}
