package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-shortlink/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const aliasCachePrefix = "alias:"

// AliasCache caches alias records. Get returns nil, nil on a miss; an entry that
// cannot be decoded is also a miss.
type AliasCache interface {
	Get(ctx context.Context, alias string) (*domain.AliasRecord, error)
	Set(ctx context.Context, rec *domain.AliasRecord) error
}

// Compile-time interface checks
var (
	_ AliasCache = (*redisAliasCache)(nil)
	_ AliasCache = (*noopAliasCache)(nil)
)

type redisAliasCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *log.Helper
}

// NewAliasCache creates a Redis backed cache, or a no-op cache when Redis is not configured.
func NewAliasCache(d *Data, logger log.Logger) AliasCache {
	if d.rdb == nil {
		return noopAliasCache{}
	}
	return &redisAliasCache{
		rdb: d.rdb,
		ttl: d.cacheTTL,
		log: log.NewHelper(log.With(logger, "module", "data/alias_cache")),
	}
}

type cachedAlias struct {
	Alias     string `json:"alias"`
	TargetURL string `json:"target_url"`
	CreatedAt int64  `json:"created_at"`
}

func (c *redisAliasCache) Get(ctx context.Context, alias string) (*domain.AliasRecord, error) {
	data, err := c.rdb.Get(ctx, aliasCachePrefix+alias).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached alias %q: %w", alias, err)
	}

	var cached cachedAlias
	if err := json.Unmarshal(data, &cached); err != nil {
		c.log.WithContext(ctx).Warnf("failed to unmarshal cached alias %q: %v", alias, err)
		return nil, nil
	}

	return &domain.AliasRecord{
		Alias:     cached.Alias,
		TargetURL: cached.TargetURL,
		CreatedAt: time.UnixMilli(cached.CreatedAt).UTC(),
	}, nil
}

func (c *redisAliasCache) Set(ctx context.Context, rec *domain.AliasRecord) error {
	data, err := json.Marshal(cachedAlias{
		Alias:     rec.Alias,
		TargetURL: rec.TargetURL,
		CreatedAt: rec.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return err
	}

	if err := c.rdb.Set(ctx, aliasCachePrefix+rec.Alias, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached alias %q: %w", rec.Alias, err)
	}
	return nil
}

type noopAliasCache struct{}

func (noopAliasCache) Get(context.Context, string) (*domain.AliasRecord, error) {
	return nil, nil
}

func (noopAliasCache) Set(context.Context, *domain.AliasRecord) error {
	return nil
}
