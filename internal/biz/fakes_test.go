package biz

import (
	"context"
	"sync"

	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"
	"go-shortlink/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

type fakeAliasStore struct {
	mu      sync.Mutex
	records map[string]domain.AliasRecord
	puts    int
	putErr  error
	getErr  error
}

func newFakeAliasStore() *fakeAliasStore {
	return &fakeAliasStore{records: make(map[string]domain.AliasRecord)}
}

func (s *fakeAliasStore) Put(ctx context.Context, alias domain.Alias, target domain.TargetURL) (*domain.AliasRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return nil, s.putErr
	}
	if _, ok := s.records[alias.String()]; ok {
		return nil, domain.ErrAliasTaken
	}
	rec := domain.AliasRecord{Alias: alias.String(), TargetURL: target.String()}
	s.records[rec.Alias] = rec
	return &rec, nil
}

func (s *fakeAliasStore) Get(ctx context.Context, alias string) (*domain.AliasRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	rec, ok := s.records[alias]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

type fakeClickLog struct {
	mu        sync.Mutex
	clicks    []domain.ClickEvent
	appendErr error
	listErr   error
}

func (l *fakeClickLog) Append(ctx context.Context, click domain.ClickEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	l.clicks = append(l.clicks, click)
	return nil
}

func (l *fakeClickLog) ListByAlias(ctx context.Context, alias string) ([]domain.ClickEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listErr != nil {
		return nil, l.listErr
	}
	out := make([]domain.ClickEvent, 0)
	for _, c := range l.clicks {
		if c.Alias == alias {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *fakeClickLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clicks)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

// sequenceGenerator returns its candidates in order, then repeats the last one.
type sequenceGenerator struct {
	candidates []string
	calls      int
	err        error
}

func (g *sequenceGenerator) Generate() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	i := g.calls
	if i >= len(g.candidates) {
		i = len(g.candidates) - 1
	}
	g.calls++
	return g.candidates[i], nil
}
