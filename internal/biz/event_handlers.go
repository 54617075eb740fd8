package biz

import (
	"context"
	"time"

	"go-shortlink/internal/domain"
	"go-shortlink/internal/domain/event"
	"go-shortlink/internal/infra/eventbus"
	"go-shortlink/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface checks
var (
	_ eventbus.EventHandler = (*LoggingEventHandler)(nil)
	_ eventbus.EventHandler = (*ClickEventHandler)(nil)
	_ eventbus.Settler      = (*ClickEventHandler)(nil)
)

// LoggingEventHandler logs every event of one type.
type LoggingEventHandler struct {
	log       *log.Helper
	eventName string
}

func NewLoggingEventHandler(logger log.Logger, eventName string) *LoggingEventHandler {
	return &LoggingEventHandler{
		log:       log.NewHelper(logger),
		eventName: eventName,
	}
}

func (h *LoggingEventHandler) HandlerName() string {
	return "logging_handler_" + h.eventName
}

func (h *LoggingEventHandler) EventName() string {
	return h.eventName
}

func (h *LoggingEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	switch envelope.EventName {
	case event.AliasCreatedName:
		evt, err := eventbus.DecodePayload[event.AliasCreated](envelope)
		if err != nil {
			return err
		}
		h.log.WithContext(ctx).Infof("[Event] alias created: %s -> %s (generated: %t)", evt.Alias, evt.TargetURL, evt.Generated)
	case event.AliasClickedName:
		evt, err := eventbus.DecodePayload[event.AliasClicked](envelope)
		if err != nil {
			return err
		}
		h.log.WithContext(ctx).Debugf("[Event] alias clicked: %s at %s", evt.Alias, evt.ClickedAt.Format(time.RFC3339))
	default:
		h.log.WithContext(ctx).Infof("[Event] %s: %s", envelope.EventName, envelope.AggregateID)
	}
	return nil
}

// ClickEventHandler appends AliasClicked events to the click log and frees the
// recorder's queue slot once each click is settled.
type ClickEventHandler struct {
	clicks   domain.ClickLog
	recorder *ClickRecorder
	metrics  *metrics.Metrics
	log      *log.Helper
}

func NewClickEventHandler(clicks domain.ClickLog, recorder *ClickRecorder, m *metrics.Metrics, logger log.Logger) *ClickEventHandler {
	return &ClickEventHandler{
		clicks:   clicks,
		recorder: recorder,
		metrics:  m,
		log:      log.NewHelper(logger),
	}
}

func (h *ClickEventHandler) HandlerName() string {
	return "click_recorder"
}

func (h *ClickEventHandler) EventName() string {
	return event.AliasClickedName
}

// Handle returns append errors so the router retries them. Undecodable
// payloads are logged and skipped.
func (h *ClickEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	evt, err := eventbus.DecodePayload[event.AliasClicked](envelope)
	if err != nil {
		h.log.WithContext(ctx).Warnf("skipping event %s: %v", envelope.EventID, err)
		return nil
	}

	if err := h.clicks.Append(ctx, domain.ClickEvent{
		Alias:     evt.Alias,
		Timestamp: evt.ClickedAt,
		Referrer:  evt.Referrer,
		UserAgent: evt.UserAgent,
	}); err != nil {
		h.log.WithContext(ctx).Warnf("failed to append click for %s: %v", evt.Alias, err)
		return err
	}

	h.metrics.ClicksRecorded.Inc()
	return nil
}

func (h *ClickEventHandler) Settle() {
	if h.recorder != nil {
		h.recorder.Settle()
	}
}

// RegisterEventHandlers registers all event handlers with the router. Clicks are
// not logged one by one; the click counters cover them.
func RegisterEventHandlers(router *eventbus.Router, clicks domain.ClickLog, recorder *ClickRecorder, m *metrics.Metrics, logger log.Logger) {
	router.AddHandler(NewLoggingEventHandler(logger, event.AliasCreatedName))
	router.AddHandler(NewClickEventHandler(clicks, recorder, m, logger))
}
