package biz

import (
	"go-shortlink/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewAliasGenerator,
	NewAliasUsecase,
	NewClickRecorder,
	NewAnalyticsUsecase,
	wire.Bind(new(EventPublisher), new(*eventbus.EventBus)),
)

// Errors returned by the use cases. Compare with errors.Is; it matches on code and reason.
var (
	ErrInvalidRequest      = errors.BadRequest("INVALID_REQUEST", "request body is not valid JSON")
	ErrInvalidURL          = errors.BadRequest("INVALID_URL", "field url is not a valid URL")
	ErrInvalidAlias        = errors.BadRequest("INVALID_ALIAS", "alias must be 3-20 characters of letters, digits, '_' or '-'")
	ErrAliasTaken          = errors.Conflict("ALIAS_TAKEN", "alias already exists")
	ErrAliasNotFound       = errors.NotFound("ALIAS_NOT_FOUND", "not found")
	ErrGenerationExhausted = errors.InternalServer("GENERATION_EXHAUSTED", "could not generate a unique alias")
	ErrStorageFailure      = errors.InternalServer("STORAGE_FAILURE", "storage failure")
)
