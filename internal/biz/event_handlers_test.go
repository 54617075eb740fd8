package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-shortlink/internal/conf"
	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"
	"go-shortlink/internal/infra/eventbus"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeFor(t *testing.T, e event.Event) *eventbus.EventEnvelope {
	t.Helper()
	msg, err := eventbus.EventToMessage(e)
	require.NoError(t, err)
	envelope, err := eventbus.MessageToEnvelope(msg)
	require.NoError(t, err)
	return envelope
}

func TestClickEventHandler_AppendsClick(t *testing.T) {
	clicks := &fakeClickLog{}
	m := newTestMetrics()
	h := NewClickEventHandler(clicks, nil, m, log.DefaultLogger)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	err := h.Handle(context.Background(), envelopeFor(t, event.NewAliasClicked("abc", at, "https://x.com", "curl/8.0")))

	require.NoError(t, err)
	require.Len(t, clicks.clicks, 1)
	got := clicks.clicks[0]
	assert.Equal(t, "abc", got.Alias)
	assert.True(t, at.Equal(got.Timestamp))
	assert.Equal(t, "https://x.com", got.Referrer)
	assert.Equal(t, "curl/8.0", got.UserAgent)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClicksRecorded))
}

func TestClickEventHandler_ReturnsAppendErrors(t *testing.T) {
	clicks := &fakeClickLog{appendErr: errors.New("database is locked")}
	m := newTestMetrics()
	h := NewClickEventHandler(clicks, nil, m, log.DefaultLogger)

	err := h.Handle(context.Background(), envelopeFor(t, event.NewAliasClicked("abc", time.Now(), "", "")))

	assert.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ClicksRecorded))
}

func TestClickEventHandler_SkipsUndecodablePayload(t *testing.T) {
	h := NewClickEventHandler(&fakeClickLog{}, nil, newTestMetrics(), log.DefaultLogger)
	envelope := envelopeFor(t, event.NewAliasClicked("abc", time.Now(), "", ""))
	envelope.Payload = []byte(`"not an object"`)

	assert.NoError(t, h.Handle(context.Background(), envelope))
}

func TestLoggingEventHandler(t *testing.T) {
	for _, e := range []event.Event{
		event.NewAliasCreated("abc", "https://example.com", true),
		event.NewAliasClicked("abc", time.Now(), "", ""),
	} {
		h := NewLoggingEventHandler(log.DefaultLogger, e.EventName())
		assert.Equal(t, "logging_handler_"+e.EventName(), h.HandlerName())
		assert.NoError(t, h.Handle(context.Background(), envelopeFor(t, e)))
	}
}

// TestClickPipeline wires the recorder to the click log through the event bus.
func TestClickPipeline(t *testing.T) {
	m := newTestMetrics()
	bus := eventbus.NewEventBus(&conf.Shortener{}, watermill.NopLogger{})
	defer bus.Close()
	router, err := eventbus.NewRouter(bus, m, watermill.NopLogger{})
	require.NoError(t, err)
	defer router.Close()

	clicks := &fakeClickLog{}
	recorder := NewClickRecorder(&conf.Shortener{}, bus, m, log.DefaultLogger)
	RegisterEventHandlers(router, clicks, recorder, m, log.DefaultLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go router.Run(ctx)
	<-router.Running()

	const k = 25
	for i := 0; i < k; i++ {
		recorder.Record(context.Background(), domain.ClickEvent{Alias: "abc", Timestamp: time.Now()})
	}

	assert.Eventually(t, func() bool { return clicks.Len() == k }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(k), testutil.ToFloat64(m.ClicksPublished))
	assert.Eventually(t, func() bool { return testutil.ToFloat64(m.ClicksRecorded) == k }, time.Second, 10*time.Millisecond)
}

// stalledClickLog blocks every Append until unblock is closed.
type stalledClickLog struct {
	fakeClickLog
	unblock chan struct{}
}

func (l *stalledClickLog) Append(ctx context.Context, click domain.ClickEvent) error {
	<-l.unblock
	return l.fakeClickLog.Append(ctx, click)
}

// TestClickPipeline_StalledLogDropsClicks checks that a click log that stops
// accepting writes bounds the queue instead of letting it grow.
func TestClickPipeline_StalledLogDropsClicks(t *testing.T) {
	// Arrange
	const buffer = 16
	m := newTestMetrics()
	sc := &conf.Shortener{RecorderBuffer: buffer}
	bus := eventbus.NewEventBus(sc, watermill.NopLogger{})
	defer bus.Close()
	router, err := eventbus.NewRouter(bus, m, watermill.NopLogger{})
	require.NoError(t, err)
	defer router.Close()

	clicks := &stalledClickLog{unblock: make(chan struct{})}
	recorder := NewClickRecorder(sc, bus, m, log.DefaultLogger)
	RegisterEventHandlers(router, clicks, recorder, m, log.DefaultLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go router.Run(ctx)
	<-router.Running()

	// Act
	const k = 2000
	for i := 0; i < k; i++ {
		recorder.Record(context.Background(), domain.ClickEvent{Alias: "abc", Timestamp: time.Now()})
	}

	// Assert
	assert.Equal(t, float64(buffer), testutil.ToFloat64(m.ClicksPublished))
	assert.Equal(t, float64(k-buffer), testutil.ToFloat64(m.ClicksDropped))

	close(clicks.unblock)
	assert.Eventually(t, func() bool { return clicks.Len() == buffer }, 3*time.Second, 10*time.Millisecond)

	// Settled clicks free their slots for new ones.
	assert.Eventually(t, func() bool {
		recorder.Record(context.Background(), domain.ClickEvent{Alias: "abc", Timestamp: time.Now()})
		return testutil.ToFloat64(m.ClicksPublished) > buffer
	}, 3*time.Second, 10*time.Millisecond)
}
