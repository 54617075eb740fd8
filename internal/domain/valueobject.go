package domain

import (
	"go-shortlink/internal/domain/valueobject"
)

// Re-export value object types so consumers can import the domain package directly.
type (
	Alias     = valueobject.Alias
	TargetURL = valueobject.TargetURL
)

var (
	NewAlias     = valueobject.NewAlias
	NewTargetURL = valueobject.NewTargetURL
)

const (
	MinAliasLength     = valueobject.MinAliasLength
	MaxAliasLength     = valueobject.MaxAliasLength
	MaxTargetURLLength = valueobject.MaxTargetURLLength
)
