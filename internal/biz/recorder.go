package biz

import (
	"context"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"
	"go-shortlink/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/semaphore"
)

// ClickRecorder enqueues click events for the background click handler.
// At most RecorderBuffer clicks are queued or being handled at once.
type ClickRecorder struct {
	publisher EventPublisher
	slots     *semaphore.Weighted
	metrics   *metrics.Metrics
	log       *log.Helper
}

func NewClickRecorder(c *conf.Shortener, publisher EventPublisher, m *metrics.Metrics, logger log.Logger) *ClickRecorder {
	return &ClickRecorder{
		publisher: publisher,
		slots:     semaphore.NewWeighted(int64(c.Normalize().RecorderBuffer)),
		metrics:   m,
		log:       log.NewHelper(log.With(logger, "module", "biz/recorder")),
	}
}

// Record returns as soon as the click is queued. A full queue or a failure to
// queue is logged and counted, never returned.
func (r *ClickRecorder) Record(ctx context.Context, click domain.ClickEvent) {
	if !r.slots.TryAcquire(1) {
		r.metrics.ClicksDropped.Inc()
		r.log.WithContext(ctx).Warnf("click queue full, dropping click for %q", click.Alias)
		return
	}

	evt := event.NewAliasClicked(click.Alias, click.Timestamp, click.Referrer, click.UserAgent)
	if err := r.publisher.Publish(ctx, evt); err != nil {
		r.slots.Release(1)
		r.metrics.ClicksDropped.Inc()
		r.log.WithContext(ctx).Errorf("failed to queue click for %q: %v", click.Alias, err)
		return
	}
	r.metrics.ClicksPublished.Inc()
}

// Settle frees the slot of one queued click after it was appended or dropped.
func (r *ClickRecorder) Settle() {
	r.slots.Release(1)
}
