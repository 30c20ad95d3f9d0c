package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocktrack/internal/shared/logger"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// EventBusInterface defines the contract for event bus implementations
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler)
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
	Unsubscribe(eventType string)
	GetSubscriberCount(eventType string) int
}

// EventBus is an in-memory event bus used to fan out inventory change
// notifications to in-process subscribers (stream publisher, websocket hub).
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   logger.Logger
	config   BusConfig
}

// BusConfig holds configuration for the event bus
type BusConfig struct {
	AsyncProcessing bool
	MaxRetries      int
	RetryDelay      time.Duration
}

// DefaultBusConfig returns default configuration
func DefaultBusConfig() BusConfig {
	return BusConfig{
		AsyncProcessing: false,
		MaxRetries:      3,
		RetryDelay:      100 * time.Millisecond,
	}
}

// NewEventBus creates a new event bus instance
func NewEventBus(log logger.Logger) *EventBus {
	return NewEventBusWithConfig(log, DefaultBusConfig())
}

// NewEventBusWithConfig creates a new event bus with custom configuration
func NewEventBusWithConfig(log logger.Logger, config BusConfig) *EventBus {
	if log == nil {
		log = &noopLogger{}
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log,
		config:   config,
	}
}

// Subscribe adds a handler for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debugf("Subscribed handler for event type: %s", eventType)
}

// Publish sends an event to all registered handlers
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := eb.handlers[event.Type()]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		eb.logger.Debugf("No handlers found for event type: %s", event.Type())
		return nil
	}

	if eb.config.AsyncProcessing {
		return eb.publishAsync(ctx, event, handlers)
	}
	return eb.publishSync(ctx, event, handlers)
}

// PublishAndForget publishes an event without waiting for handler results
func (eb *EventBus) PublishAndForget(ctx context.Context, event Event) {
	go func() {
		if err := eb.Publish(ctx, event); err != nil {
			eb.logger.Errorf("Fire-and-forget publish failed for %s: %v", event.Type(), err)
		}
	}()
}

// Unsubscribe removes all handlers for an event type
func (eb *EventBus) Unsubscribe(eventType string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	delete(eb.handlers, eventType)
}

// GetSubscriberCount returns the number of handlers for an event type
func (eb *EventBus) GetSubscriberCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.handlers[eventType])
}

func (eb *EventBus) publishSync(ctx context.Context, event Event, handlers []Handler) error {
	for i, handler := range handlers {
		if err := eb.executeHandler(ctx, event, handler, i); err != nil {
			return err
		}
	}
	return nil
}

func (eb *EventBus) publishAsync(ctx context.Context, event Event, handlers []Handler) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	for i, handler := range handlers {
		wg.Add(1)
		go func(idx int, h Handler) {
			defer wg.Done()
			if err := eb.executeHandler(ctx, event, h, idx); err != nil {
				errCh <- err
			}
		}(i, handler)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

func (eb *EventBus) executeHandler(ctx context.Context, event Event, handler Handler, idx int) error {
	var lastErr error
	for attempt := 0; attempt <= eb.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(eb.config.RetryDelay):
			}
		}
		if lastErr = handler(ctx, event); lastErr == nil {
			return nil
		}
		eb.logger.Warnf("Handler %d failed for event %s (attempt %d): %v", idx, event.Type(), attempt+1, lastErr)
	}
	return fmt.Errorf("handler %d exhausted retries for event %s: %w", idx, event.Type(), lastErr)
}

// noopLogger is used when no logger is supplied
type noopLogger struct{}

func (n *noopLogger) Debug(args ...interface{})                          {}
func (n *noopLogger) Info(args ...interface{})                           {}
func (n *noopLogger) Warn(args ...interface{})                           {}
func (n *noopLogger) Error(args ...interface{})                          {}
func (n *noopLogger) Fatal(args ...interface{})                          {}
func (n *noopLogger) Debugf(format string, args ...interface{})          {}
func (n *noopLogger) Infof(format string, args ...interface{})           {}
func (n *noopLogger) Warnf(format string, args ...interface{})           {}
func (n *noopLogger) Errorf(format string, args ...interface{})          {}
func (n *noopLogger) Fatalf(format string, args ...interface{})          {}
func (n *noopLogger) WithFields(fields map[string]interface{}) logger.Logger { return n }
func (n *noopLogger) WithContext(ctx context.Context) logger.Logger          { return n }
func (n *noopLogger) WithComponent(component string) logger.Logger           { return n }
