package domain

import (
	"errors"

	"go-shortlink/internal/domain/valueobject"
)

var (
	ErrAliasTaken = errors.New("alias already exists")

	// Re-export value object errors for convenience.
	ErrInvalidURL   = valueobject.ErrInvalidURL
	ErrInvalidAlias = valueobject.ErrInvalidAlias
)
