package biz

import (
	"context"
	"sort"
	"time"

	"go-shortlink/internal/domain"
	"go-shortlink/internal/enrichment"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Bucket is one key of a breakdown and the number of clicks under it.
type Bucket struct {
	Key   string
	Count int
}

// Summary aggregates every click recorded for an alias. Breakdowns are sorted by key;
// day and month keys are UTC. ByUserAgent is keyed by the raw header, empty included.
type Summary struct {
	Alias       string
	Total       int
	ByDay       []Bucket
	ByMonth     []Bucket
	ByDevice    []Bucket
	ByUserAgent []Bucket
	BySource    []Bucket
}

// AnalyticsUsecase computes click summaries on demand from the click log.
type AnalyticsUsecase struct {
	store   domain.AliasStore
	clicks  domain.ClickLog
	devices *enrichment.DeviceDetector
	sources *enrichment.RefererClassifier
	log     *log.Helper
}

func NewAnalyticsUsecase(store domain.AliasStore, clicks domain.ClickLog, logger log.Logger) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		store:   store,
		clicks:  clicks,
		devices: enrichment.NewDeviceDetector(),
		sources: enrichment.NewRefererClassifier(),
		log:     log.NewHelper(log.With(logger, "module", "biz/analytics")),
	}
}

// Summarize fails with ErrAliasNotFound when no record exists, whether or not clicks were logged.
func (uc *AnalyticsUsecase) Summarize(ctx context.Context, alias string) (*Summary, error) {
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

	clicks, err := uc.clicks.ListByAlias(ctx, alias)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("failed to list clicks for %q: %v", alias, err)
		return nil, ErrStorageFailure.WithCause(err)
	}

	return &Summary{
		Alias: rec.Alias,
		Total: len(clicks),
		ByDay: breakdown(clicks, func(c domain.ClickEvent) string {
			return c.Timestamp.In(time.UTC).Format(dayLayout)
		}),
		ByMonth: breakdown(clicks, func(c domain.ClickEvent) string {
			return c.Timestamp.In(time.UTC).Format(monthLayout)
		}),
		ByDevice: breakdown(clicks, func(c domain.ClickEvent) string {
			return uc.devices.DetectDevice(c.UserAgent)
		}),
		ByUserAgent: breakdown(clicks, func(c domain.ClickEvent) string {
			return c.UserAgent
		}),
		BySource: breakdown(clicks, func(c domain.ClickEvent) string {
			return uc.sources.ClassifySource(c.Referrer)
		}),
	}, nil
}

func breakdown(clicks []domain.ClickEvent, key func(domain.ClickEvent) string) []Bucket {
	counts := lo.CountValuesBy(clicks, key)
	buckets := lo.MapToSlice(counts, func(k string, n int) Bucket {
		return Bucket{Key: k, Count: n}
	})
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}
