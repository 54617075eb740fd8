package biz

import (
	"context"
	"errors"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"
	"go-shortlink/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// EventPublisher hands domain events to background handlers without waiting for them.
type EventPublisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// AliasUsecase creates and resolves aliases.
type AliasUsecase struct {
	store       domain.AliasStore
	generator   AliasGenerator
	publisher   EventPublisher
	metrics     *metrics.Metrics
	maxAttempts int
	log         *log.Helper
}

func NewAliasUsecase(
	c *conf.Shortener,
	store domain.AliasStore,
	generator AliasGenerator,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger log.Logger,
) *AliasUsecase {
	return &AliasUsecase{
		store:       store,
		generator:   generator,
		publisher:   publisher,
		metrics:     m,
		maxAttempts: c.Normalize().MaxAttempts,
		log:         log.NewHelper(log.With(logger, "module", "biz/alias")),
	}
}

// Shorten stores rawURL under customAlias, or under a generated alias when customAlias is empty.
// A taken custom alias is reported as ErrAliasTaken and never replaced by a generated one.
func (uc *AliasUsecase) Shorten(ctx context.Context, rawURL, customAlias string) (*domain.AliasRecord, error) {
	target, err := domain.NewTargetURL(rawURL)
	if err != nil {
		return nil, ErrInvalidURL
	}

	var rec *domain.AliasRecord
	if customAlias != "" {
		rec, err = uc.putCustom(ctx, customAlias, target)
	} else {
		rec, err = uc.putGenerated(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	source := "custom"
	if customAlias == "" {
		source = "generated"
	}
	uc.metrics.AliasesCreated.WithLabelValues(source).Inc()

	if err := uc.publisher.Publish(ctx, event.NewAliasCreated(rec.Alias, rec.TargetURL, customAlias == "")); err != nil {
		uc.log.WithContext(ctx).Warnf("failed to publish alias.created for %q: %v", rec.Alias, err)
	}
	return rec, nil
}

func (uc *AliasUsecase) putCustom(ctx context.Context, customAlias string, target domain.TargetURL) (*domain.AliasRecord, error) {
	alias, err := domain.NewAlias(customAlias)
	if err != nil {
		return nil, ErrInvalidAlias
	}

	rec, err := uc.store.Put(ctx, alias, target)
	switch {
	case errors.Is(err, domain.ErrAliasTaken):
		return nil, ErrAliasTaken
	case err != nil:
		uc.log.WithContext(ctx).Errorf("failed to store alias %q -> %q: %v", customAlias, target, err)
		return nil, ErrStorageFailure.WithCause(err)
	}
	return rec, nil
}

// putGenerated retries on collision up to maxAttempts times.
func (uc *AliasUsecase) putGenerated(ctx context.Context, target domain.TargetURL) (*domain.AliasRecord, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		candidate, err := uc.generator.Generate()
		if err != nil {
			uc.log.WithContext(ctx).Errorf("failed to generate alias: %v", err)
			return nil, ErrGenerationExhausted.WithCause(err)
		}
		alias, err := domain.NewAlias(candidate)
		if err != nil {
			uc.log.WithContext(ctx).Errorf("generator produced invalid alias %q", candidate)
			return nil, ErrGenerationExhausted.WithCause(err)
		}

		rec, err := uc.store.Put(ctx, alias, target)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, domain.ErrAliasTaken) {
			uc.log.WithContext(ctx).Errorf("failed to store alias %q -> %q: %v", candidate, target, err)
			return nil, ErrStorageFailure.WithCause(err)
		}
		uc.log.WithContext(ctx).Warnf("generated alias %q collided (attempt %d/%d)", candidate, attempt, uc.maxAttempts)
	}

	uc.log.WithContext(ctx).Errorf("no unique alias for %q after %d attempts", target, uc.maxAttempts)
	return nil, ErrGenerationExhausted
}

// Resolve returns the record for alias or ErrAliasNotFound. It has no side effects.
func (uc *AliasUsecase) Resolve(ctx context.Context, alias string) (*domain.AliasRecord, error) {
	if _, err := domain.NewAlias(alias); err != nil {
		return nil, ErrAliasNotFound
	}

	rec, err := uc.store.Get(ctx, alias)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("failed to load alias %q: %v", alias, err)
		return nil, ErrStorageFailure.WithCause(err)
	}
	if rec == nil {
		return nil, ErrAliasNotFound
	}
	return rec, nil
}
