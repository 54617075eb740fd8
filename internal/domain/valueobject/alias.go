package valueobject

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinAliasLength = 3
	MaxAliasLength = 20
)

var aliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Alias is a value object representing the short token mapped to a target URL.
// It is immutable and validated on creation.
type Alias struct {
	value string
}

// NewAlias creates an Alias from a caller supplied string, validating the format.
func NewAlias(alias string) (Alias, error) {
	if err := validation.Validate(alias,
		validation.Required.Error("alias is required"),
		validation.Length(MinAliasLength, MaxAliasLength).Error("alias must be 3-20 characters"),
		validation.Match(aliasRegex).Error("alias must contain only alphanumeric characters, underscores, and hyphens"),
	); err != nil {
		return Alias{}, ErrInvalidAlias
	}
	return Alias{value: alias}, nil
}

func (a Alias) String() string {
	return a.value
}

func (a Alias) IsEmpty() bool {
	return a.value == ""
}
