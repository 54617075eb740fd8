package data

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"go-shortlink/internal/domain"

	entsql "entgo.io/ent/dialect/sql"
)

const clicksTable = "clicks"

// Compile-time interface checks
var (
	_ domain.ClickLog = (*sqlClickLog)(nil)
	_ domain.ClickLog = (*memoryClickLog)(nil)
)

// NewClickLog returns the click log for the configured backend.
func NewClickLog(d *Data) domain.ClickLog {
	if d.db == nil {
		return newMemoryClickLog()
	}
	return newSQLClickLog(d.db, d.dialect)
}

type sqlClickLog struct {
	db      *sql.DB
	dialect string
}

func newSQLClickLog(db *sql.DB, dialect string) *sqlClickLog {
	return &sqlClickLog{db: db, dialect: dialect}
}

func (l *sqlClickLog) Append(ctx context.Context, click domain.ClickEvent) error {
	query, args := entsql.Dialect(l.dialect).
		Insert(clicksTable).
		Columns("alias", "clicked_at", "referrer", "user_agent").
		Values(click.Alias, click.Timestamp.UnixMilli(), click.Referrer, click.UserAgent).
		Query()

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert click for %q: %w", click.Alias, err)
	}
	return nil
}

func (l *sqlClickLog) ListByAlias(ctx context.Context, alias string) ([]domain.ClickEvent, error) {
	query, args := entsql.Dialect(l.dialect).
		Select("alias", "clicked_at", "referrer", "user_agent").
		From(entsql.Table(clicksTable)).
		Where(entsql.EQ("alias", alias)).
		OrderBy("clicked_at", "id").
		Query()

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select clicks for %q: %w", alias, err)
	}
	defer rows.Close()

	clicks := make([]domain.ClickEvent, 0)
	for rows.Next() {
		var (
			click     domain.ClickEvent
			clickedAt int64
		)
		if err := rows.Scan(&click.Alias, &clickedAt, &click.Referrer, &click.UserAgent); err != nil {
			return nil, fmt.Errorf("scan click for %q: %w", alias, err)
		}
		click.Timestamp = time.UnixMilli(clickedAt).UTC()
		clicks = append(clicks, click)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clicks for %q: %w", alias, err)
	}
	return clicks, nil
}

type memoryClickLog struct {
	mu     sync.RWMutex
	clicks map[string][]domain.ClickEvent
}

func newMemoryClickLog() *memoryClickLog {
	return &memoryClickLog{clicks: make(map[string][]domain.ClickEvent)}
}

// Append keeps each alias's slice sorted by timestamp. In-order clicks are
// appended; late ones are inserted after the last click not newer than them.
func (l *memoryClickLog) Append(_ context.Context, click domain.ClickEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	clicks := l.clicks[click.Alias]
	i := len(clicks)
	for i > 0 && clicks[i-1].Timestamp.After(click.Timestamp) {
		i--
	}
	if i == len(clicks) {
		l.clicks[click.Alias] = append(clicks, click)
	} else {
		l.clicks[click.Alias] = slices.Insert(clicks, i, click)
	}
	return nil
}

func (l *memoryClickLog) ListByAlias(_ context.Context, alias string) ([]domain.ClickEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ClickEvent, len(l.clicks[alias]))
	copy(out, l.clicks[alias])
	return out, nil
}
