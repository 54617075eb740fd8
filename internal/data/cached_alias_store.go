package data

import (
	"context"

	"go-shortlink/internal/domain"
	"go-shortlink/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ domain.AliasStore = (*CachedAliasStore)(nil)

// CachedAliasStore decorates an AliasStore with a read-through cache.
// Records never change after Put, so entries are never invalidated.
type CachedAliasStore struct {
	store   domain.AliasStore
	cache   AliasCache
	metrics *metrics.Metrics
	log     *log.Helper
}

func NewCachedAliasStore(store domain.AliasStore, cache AliasCache, m *metrics.Metrics, logger log.Logger) *CachedAliasStore {
	return &CachedAliasStore{
		store:   store,
		cache:   cache,
		metrics: m,
		log:     log.NewHelper(logger),
	}
}

// Put writes to the store, then warms the cache.
func (s *CachedAliasStore) Put(ctx context.Context, alias domain.Alias, target domain.TargetURL) (*domain.AliasRecord, error) {
	rec, err := s.store.Put(ctx, alias, target)
	if err != nil {
		return nil, err
	}
	s.set(ctx, rec)
	return rec, nil
}

func (s *CachedAliasStore) Get(ctx context.Context, alias string) (*domain.AliasRecord, error) {
	cached, err := s.cache.Get(ctx, alias)
	switch {
	case err != nil:
		s.log.WithContext(ctx).Warnf("alias cache lookup for %q failed: %v", alias, err)
		s.count("error")
	case cached != nil:
		s.count("hit")
		return cached, nil
	default:
		s.count("miss")
	}

	rec, err := s.store.Get(ctx, alias)
	if err != nil || rec == nil {
		return rec, err
	}
	s.set(ctx, rec)
	return rec, nil
}

func (s *CachedAliasStore) set(ctx context.Context, rec *domain.AliasRecord) {
	if err := s.cache.Set(ctx, rec); err != nil {
		s.log.WithContext(ctx).Warnf("failed to cache alias %q: %v", rec.Alias, err)
	}
}

func (s *CachedAliasStore) count(result string) {
	if s.metrics != nil {
		s.metrics.CacheRequests.WithLabelValues(result).Inc()
	}
}
