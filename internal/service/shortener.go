package service

import (
	"context"
	"time"

	"go-shortlink/internal/biz"
	"go-shortlink/internal/domain"

	"github.com/samber/lo"
)

type ShortenRequest struct {
	URL   string `json:"url"`
	Alias string `json:"alias,omitempty"`
}

type ShortenReply struct {
	Alias string `json:"alias"`
}

type RedirectRequest struct {
	Alias string `json:"alias"`
}

type RedirectReply struct {
	TargetURL string `json:"target_url"`
}

type AnalyticsRequest struct {
	Alias string `json:"alias"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type AnalyticsReply struct {
	Total       int          `json:"total"`
	ByDay       []DayCount   `json:"byDay"`
	ByMonth     []MonthCount `json:"byMonth"`
	ByDevice    []KeyCount   `json:"byDevice"`
	ByUserAgent []KeyCount   `json:"byUserAgent"`
	BySource    []KeyCount   `json:"bySource"`
}

// ClickMetadata is the request data captured for a click.
type ClickMetadata struct {
	Referrer  string
	UserAgent string
}

// ShortenerService implements the shortening, redirect and analytics endpoints.
type ShortenerService struct {
	aliases   *biz.AliasUsecase
	recorder  *biz.ClickRecorder
	analytics *biz.AnalyticsUsecase
}

func NewShortenerService(aliases *biz.AliasUsecase, recorder *biz.ClickRecorder, analytics *biz.AnalyticsUsecase) *ShortenerService {
	return &ShortenerService{
		aliases:   aliases,
		recorder:  recorder,
		analytics: analytics,
	}
}

func (s *ShortenerService) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenReply, error) {
	rec, err := s.aliases.Shorten(ctx, req.URL, req.Alias)
	if err != nil {
		return nil, err
	}
	return &ShortenReply{Alias: rec.Alias}, nil
}

func (s *ShortenerService) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectReply, error) {
	rec, err := s.aliases.Resolve(ctx, req.Alias)
	if err != nil {
		return nil, err
	}
	return &RedirectReply{TargetURL: rec.TargetURL}, nil
}

// RecordClick queues a click for alias. The caller's cancellation is dropped so a
// client disconnect does not affect a click that is already being recorded.
func (s *ShortenerService) RecordClick(ctx context.Context, alias string, at time.Time, md ClickMetadata) {
	s.recorder.Record(context.WithoutCancel(ctx), domain.ClickEvent{
		Alias:     alias,
		Timestamp: at,
		Referrer:  md.Referrer,
		UserAgent: md.UserAgent,
	})
}

func (s *ShortenerService) Analytics(ctx context.Context, req *AnalyticsRequest) (*AnalyticsReply, error) {
	summary, err := s.analytics.Summarize(ctx, req.Alias)
	if err != nil {
		return nil, err
	}

	return &AnalyticsReply{
		Total: summary.Total,
		ByDay: lo.Map(summary.ByDay, func(b biz.Bucket, _ int) DayCount {
			return DayCount{Date: b.Key, Count: b.Count}
		}),
		ByMonth: lo.Map(summary.ByMonth, func(b biz.Bucket, _ int) MonthCount {
			return MonthCount{Month: b.Key, Count: b.Count}
		}),
		ByDevice:    lo.Map(summary.ByDevice, toKeyCount),
		ByUserAgent: lo.Map(summary.ByUserAgent, toKeyCount),
		BySource:    lo.Map(summary.BySource, toKeyCount),
	}, nil
}

func toKeyCount(b biz.Bucket, _ int) KeyCount {
	return KeyCount{Key: b.Key, Count: b.Count}
}
