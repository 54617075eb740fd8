package eventbus

import (
	"context"
	"time"

	"go-shortlink/internal/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const (
	defaultMaxRetries      = 3
	defaultInitialInterval = 50 * time.Millisecond
	defaultMaxInterval     = time.Second
)

// EventHandler handles events from the event bus.
type EventHandler interface {
	// HandlerName returns the name of the handler. Names must be unique per router.
	HandlerName() string
	// EventName returns the event name this handler handles.
	EventName() string
	// Handle processes the event envelope.
	Handle(ctx context.Context, envelope *EventEnvelope) error
}

// Settler is implemented by handlers that track their messages until they are
// settled. Settle is called once per matching message, after it was handled or
// dropped.
type Settler interface {
	Settle()
}

// Router routes messages from the event bus to event handlers.
//
// A handler error is retried with backoff. Once retries are exhausted the message
// is logged, counted as dropped and acked so it is never redelivered.
type Router struct {
	router   *message.Router
	eventBus *EventBus
	metrics  *metrics.Metrics
	logger   watermill.LoggerAdapter
	retry    middleware.Retry
}

// NewRouter creates a new event router.
func NewRouter(eventBus *EventBus, m *metrics.Metrics, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	return &Router{
		router:   router,
		eventBus: eventBus,
		metrics:  m,
		logger:   logger,
		retry: middleware.Retry{
			MaxRetries:      defaultMaxRetries,
			InitialInterval: defaultInitialInterval,
			MaxInterval:     defaultMaxInterval,
			Multiplier:      2,
			Logger:          logger,
		},
	}, nil
}

// AddHandler registers an event handler. It must be called before Run.
func (r *Router) AddHandler(handler EventHandler) {
	r.router.AddNoPublisherHandler(
		handler.HandlerName(),
		AliasEventsTopic,
		r.eventBus.Subscriber(),
		r.createHandlerFunc(handler),
	)
}

func (r *Router) createHandlerFunc(handler EventHandler) message.NoPublishHandlerFunc {
	handle := r.retry.Middleware(func(msg *message.Message) ([]*message.Message, error) {
		envelope, err := MessageToEnvelope(msg)
		if err != nil {
			return nil, err
		}
		return nil, handler.Handle(msg.Context(), envelope)
	})

	return func(msg *message.Message) error {
		if msg.Metadata.Get("event_name") != handler.EventName() {
			return nil
		}
		if settler, ok := handler.(Settler); ok {
			defer settler.Settle()
		}

		if _, err := handle(msg); err != nil {
			r.logger.Error("dropping event after retries", err, watermill.LogFields{
				"handler":      handler.HandlerName(),
				"event_name":   handler.EventName(),
				"event_id":     msg.UUID,
				"aggregate_id": msg.Metadata.Get("aggregate_id"),
			})
			if r.metrics != nil {
				r.metrics.EventsDropped.WithLabelValues(handler.HandlerName()).Inc()
			}
		}
		return nil
	}
}

// Run starts the router and blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that is closed when the router is running.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	return r.router.Close()
}
