package biz

import (
	"context"
	"errors"
	"testing"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testShortener = &conf.Shortener{AliasLength: 7, MaxAttempts: 5}

func newTestAliasUsecase(store *fakeAliasStore, gen AliasGenerator, pub *fakePublisher) *AliasUsecase {
	return NewAliasUsecase(testShortener, store, gen, pub, newTestMetrics(), log.DefaultLogger)
}

func TestAliasUsecase_Shorten(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		customAlias string
		wantErr     error
	}{
		{name: "valid url without alias", url: "https://example.com"},
		{name: "valid url with alias", url: "https://example.com", customAlias: "mylink"},
		{name: "invalid url - empty", url: "", wantErr: ErrInvalidURL},
		{name: "invalid url - not a url", url: "not-a-url", wantErr: ErrInvalidURL},
		{name: "invalid url - ftp scheme", url: "ftp://example.com", wantErr: ErrInvalidURL},
		{name: "invalid alias - too short", url: "https://example.com", customAlias: "ab", wantErr: ErrInvalidAlias},
		{name: "invalid alias - special chars", url: "https://example.com", customAlias: "my@link", wantErr: ErrInvalidAlias},
		{name: "invalid url is reported before invalid alias", url: "nope", customAlias: "ab", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeAliasStore()
			uc := newTestAliasUsecase(store, NewAliasGenerator(testShortener), &fakePublisher{})

			rec, err := uc.Shorten(context.Background(), tt.url, tt.customAlias)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, store.puts, "validation must happen before the store is touched")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.url, rec.TargetURL)
			if tt.customAlias != "" {
				assert.Equal(t, tt.customAlias, rec.Alias)
			} else {
				assert.Len(t, rec.Alias, 7)
			}
		})
	}
}

func TestAliasUsecase_Shorten_DuplicateCustomAlias(t *testing.T) {
	store := newFakeAliasStore()
	uc := newTestAliasUsecase(store, NewAliasGenerator(testShortener), &fakePublisher{})

	_, err := uc.Shorten(context.Background(), "https://example.com", "existing")
	require.NoError(t, err)

	_, err = uc.Shorten(context.Background(), "https://example2.com", "existing")
	assert.ErrorIs(t, err, ErrAliasTaken)
	assert.Equal(t, 2, store.puts, "a taken custom alias is not retried")
}

func TestAliasUsecase_Shorten_RetriesGeneratedCollisions(t *testing.T) {
	store := newFakeAliasStore()
	store.records["taken01"] = domain.AliasRecord{Alias: "taken01"}
	store.records["taken02"] = domain.AliasRecord{Alias: "taken02"}
	gen := &sequenceGenerator{candidates: []string{"taken01", "taken02", "fresh01"}}
	uc := newTestAliasUsecase(store, gen, &fakePublisher{})

	rec, err := uc.Shorten(context.Background(), "https://example.com", "")

	require.NoError(t, err)
	assert.Equal(t, "fresh01", rec.Alias)
	assert.Equal(t, 3, gen.calls)
}

func TestAliasUsecase_Shorten_GenerationExhausted(t *testing.T) {
	store := newFakeAliasStore()
	store.records["always1"] = domain.AliasRecord{Alias: "always1"}
	gen := &sequenceGenerator{candidates: []string{"always1"}}
	uc := newTestAliasUsecase(store, gen, &fakePublisher{})

	_, err := uc.Shorten(context.Background(), "https://example.com", "")

	assert.ErrorIs(t, err, ErrGenerationExhausted)
	assert.Equal(t, 5, gen.calls)
	assert.Equal(t, 5, store.puts)
}

func TestAliasUsecase_Shorten_GeneratorFailure(t *testing.T) {
	uc := newTestAliasUsecase(newFakeAliasStore(), &sequenceGenerator{err: errors.New("entropy")}, &fakePublisher{})

	_, err := uc.Shorten(context.Background(), "https://example.com", "")

	assert.ErrorIs(t, err, ErrGenerationExhausted)
}

func TestAliasUsecase_Shorten_StorageFailure(t *testing.T) {
	store := newFakeAliasStore()
	store.putErr = errors.New("disk full")
	uc := newTestAliasUsecase(store, NewAliasGenerator(testShortener), &fakePublisher{})

	_, err := uc.Shorten(context.Background(), "https://example.com", "mylink")
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = uc.Shorten(context.Background(), "https://example.com", "")
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Equal(t, 2, store.puts, "storage failures are not retried as collisions")
}

func TestAliasUsecase_Shorten_PublishesAliasCreated(t *testing.T) {
	pub := &fakePublisher{}
	m := newTestMetrics()
	uc := NewAliasUsecase(testShortener, newFakeAliasStore(), NewAliasGenerator(testShortener), pub, m, log.DefaultLogger)

	rec, err := uc.Shorten(context.Background(), "https://example.com", "")
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	created, ok := pub.events[0].(event.AliasCreated)
	require.True(t, ok)
	assert.Equal(t, rec.Alias, created.Alias)
	assert.True(t, created.Generated)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AliasesCreated.WithLabelValues("generated")))
}

func TestAliasUsecase_Shorten_PublishFailureIsIgnored(t *testing.T) {
	uc := newTestAliasUsecase(newFakeAliasStore(), NewAliasGenerator(testShortener), &fakePublisher{err: errors.New("closed")})

	rec, err := uc.Shorten(context.Background(), "https://example.com", "mylink")

	require.NoError(t, err)
	assert.Equal(t, "mylink", rec.Alias)
}

func TestAliasUsecase_Shorten_GeneratedAliasesAreUnique(t *testing.T) {
	const n = 10000
	uc := newTestAliasUsecase(newFakeAliasStore(), NewAliasGenerator(testShortener), &fakePublisher{})
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		rec, err := uc.Shorten(context.Background(), "https://example.com", "")
		require.NoError(t, err)
		seen[rec.Alias] = struct{}{}
	}

	assert.Len(t, seen, n)
}

func TestAliasUsecase_Resolve(t *testing.T) {
	store := newFakeAliasStore()
	uc := newTestAliasUsecase(store, NewAliasGenerator(testShortener), &fakePublisher{})
	_, err := uc.Shorten(context.Background(), "https://example.com", "known")
	require.NoError(t, err)

	tests := []struct {
		name    string
		alias   string
		wantURL string
		wantErr error
	}{
		{name: "existing alias", alias: "known", wantURL: "https://example.com"},
		{name: "never created", alias: "unknown", wantErr: ErrAliasNotFound},
		{name: "malformed alias", alias: "../etc", wantErr: ErrAliasNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := uc.Resolve(context.Background(), tt.alias)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, rec.TargetURL)
		})
	}
}

func TestAliasUsecase_Resolve_StorageFailure(t *testing.T) {
	store := newFakeAliasStore()
	store.getErr = errors.New("connection reset")
	uc := newTestAliasUsecase(store, NewAliasGenerator(testShortener), &fakePublisher{})

	_, err := uc.Resolve(context.Background(), "known")

	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestNanoidGenerator(t *testing.T) {
	for _, length := range []int{6, 7, 8} {
		gen := NewAliasGenerator(&conf.Shortener{AliasLength: length})
		alias, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, alias, length)
		assert.Regexp(t, "^[0-9A-Za-z]+$", alias)
	}
}
