package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	AliasCreatedName = "alias.created"
	AliasClickedName = "alias.clicked"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique identifier of the event.
	EventID() string
	// EventName returns the name of the event.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
	// AggregateID returns the ID of the aggregate that raised the event.
	AggregateID() string
}

// Base carries the fields shared by every event. The aggregate is the alias.
type Base struct {
	ID       string    `json:"event_id"`
	Occurred time.Time `json:"occurred_at"`
	AliasKey string    `json:"aggregate_id"`
}

// NewBase stamps a new event with a time-ordered UUIDv7 identifier.
func NewBase(alias string) Base {
	return Base{
		ID:       uuid.Must(uuid.NewV7()).String(),
		Occurred: time.Now().UTC(),
		AliasKey: alias,
	}
}

func (e Base) EventID() string {
	return e.ID
}

func (e Base) OccurredAt() time.Time {
	return e.Occurred
}

func (e Base) AggregateID() string {
	return e.AliasKey
}
