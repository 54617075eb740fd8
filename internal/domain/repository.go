package domain

import (
	"context"
)

// AliasStore owns alias records. Implementations live in the data layer.
type AliasStore interface {
	// Put inserts a new record. The uniqueness check and the insert are a single
	// atomic step; an existing alias yields ErrAliasTaken.
	Put(ctx context.Context, alias Alias, target TargetURL) (*AliasRecord, error)

	// Get returns the record for alias, or nil, nil if it does not exist.
	Get(ctx context.Context, alias string) (*AliasRecord, error)
}

// ClickLog is the append-only log of click events, keyed by alias.
type ClickLog interface {
	Append(ctx context.Context, click ClickEvent) error

	// ListByAlias returns every click for alias in timestamp order.
	ListByAlias(ctx context.Context, alias string) ([]ClickEvent, error)
}
