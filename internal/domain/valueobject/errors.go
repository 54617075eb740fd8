package valueobject

import "errors"

var (
	ErrInvalidURL   = errors.New("invalid url format")
	ErrInvalidAlias = errors.New("invalid alias format")
)
