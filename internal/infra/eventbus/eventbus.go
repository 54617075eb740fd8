package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// AliasEventsTopic carries every alias lifecycle and click event.
const AliasEventsTopic = "alias.events"

// EventBus is the in-process queue between request handlers and background event handlers.
// Publish never waits for subscribers to process a message.
type EventBus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewEventBus creates a Go channel backed event bus. Each subscriber gets an output
// buffer of c.RecorderBuffer messages.
func NewEventBus(c *conf.Shortener, logger watermill.LoggerAdapter) *EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: int64(c.Normalize().RecorderBuffer),
			Persistent:          false,
		},
		logger,
	)

	return &EventBus{
		pubsub: pubsub,
		logger: logger,
	}
}

func (b *EventBus) Publisher() message.Publisher {
	return b.pubsub
}

func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publish publishes a domain event on AliasEventsTopic.
func (b *EventBus) Publish(ctx context.Context, e event.Event) error {
	msg, err := EventToMessage(e)
	if err != nil {
		return err
	}
	return b.pubsub.Publish(AliasEventsTopic, msg)
}

func (b *EventBus) Close() error {
	return b.pubsub.Close()
}

// EventEnvelope wraps a domain event for transport.
type EventEnvelope struct {
	EventID     string          `json:"event_id"`
	EventName   string          `json:"event_name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// EventToMessage converts a domain event to a Watermill message.
func EventToMessage(e event.Event) (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventName(), err)
	}

	data, err := json.Marshal(EventEnvelope{
		EventID:     e.EventID(),
		EventName:   e.EventName(),
		AggregateID: e.AggregateID(),
		OccurredAt:  e.OccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", e.EventName(), err)
	}

	msg := message.NewMessage(e.EventID(), data)
	msg.Metadata.Set("event_name", e.EventName())
	msg.Metadata.Set("aggregate_id", e.AggregateID())

	return msg, nil
}

// MessageToEnvelope extracts the event envelope from a Watermill message.
func MessageToEnvelope(msg *message.Message) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// DecodePayload unmarshals the envelope payload into the concrete event type.
func DecodePayload[T event.Event](envelope *EventEnvelope) (T, error) {
	var evt T
	if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
		return evt, fmt.Errorf("decode %s payload: %w", envelope.EventName, err)
	}
	return evt, nil
}
