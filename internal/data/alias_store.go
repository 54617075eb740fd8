package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-shortlink/internal/domain"
	"go-shortlink/internal/metrics"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/go-kratos/kratos/v2/log"
)

const aliasesTable = "aliases"

// Compile-time interface checks
var (
	_ domain.AliasStore = (*sqlAliasStore)(nil)
	_ domain.AliasStore = (*memoryAliasStore)(nil)
)

// NewAliasStore returns the alias store for the configured backend, wrapped in the
// read-through cache when Redis is available.
func NewAliasStore(d *Data, cache AliasCache, m *metrics.Metrics, logger log.Logger) domain.AliasStore {
	var store domain.AliasStore
	if d.db == nil {
		store = newMemoryAliasStore()
	} else {
		store = newSQLAliasStore(d.db, d.dialect)
	}

	if d.rdb == nil {
		return store
	}
	return NewCachedAliasStore(store, cache, m, logger)
}

type sqlAliasStore struct {
	db      *sql.DB
	dialect string
}

func newSQLAliasStore(db *sql.DB, dialect string) *sqlAliasStore {
	return &sqlAliasStore{db: db, dialect: dialect}
}

// Put relies on the primary key to make check-and-insert a single statement.
func (s *sqlAliasStore) Put(ctx context.Context, alias domain.Alias, target domain.TargetURL) (*domain.AliasRecord, error) {
	rec := &domain.AliasRecord{
		Alias:     alias.String(),
		TargetURL: target.String(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	query, args := entsql.Dialect(s.dialect).
		Insert(aliasesTable).
		Columns("alias", "target_url", "created_at").
		Values(rec.Alias, rec.TargetURL, rec.CreatedAt.UnixMilli()).
		Query()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return nil, domain.ErrAliasTaken
		}
		return nil, fmt.Errorf("insert alias %q: %w", rec.Alias, err)
	}
	return rec, nil
}

func (s *sqlAliasStore) Get(ctx context.Context, alias string) (*domain.AliasRecord, error) {
	query, args := entsql.Dialect(s.dialect).
		Select("alias", "target_url", "created_at").
		From(entsql.Table(aliasesTable)).
		Where(entsql.EQ("alias", alias)).
		Query()

	var (
		rec       domain.AliasRecord
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&rec.Alias, &rec.TargetURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select alias %q: %w", alias, err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}

// memoryAliasStore keeps records in a map. The existence check and the insert
// happen under one lock.
type memoryAliasStore struct {
	mu      sync.RWMutex
	records map[string]domain.AliasRecord
}

func newMemoryAliasStore() *memoryAliasStore {
	return &memoryAliasStore{records: make(map[string]domain.AliasRecord)}
}

func (s *memoryAliasStore) Put(_ context.Context, alias domain.Alias, target domain.TargetURL) (*domain.AliasRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[alias.String()]; ok {
		return nil, domain.ErrAliasTaken
	}
	rec := domain.AliasRecord{
		Alias:     alias.String(),
		TargetURL: target.String(),
		CreatedAt: time.Now().UTC(),
	}
	s.records[rec.Alias] = rec
	return &rec, nil
}

func (s *memoryAliasStore) Get(_ context.Context, alias string) (*domain.AliasRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[alias]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
