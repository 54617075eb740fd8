package eventbus

import (
	"sort"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// kratosLogger routes Watermill logs through the service's kratos logger.
type kratosLogger struct {
	logger log.Logger
	fields watermill.LogFields
}

// NewKratosLoggerAdapter creates a Watermill logger adapter backed by logger.
func NewKratosLoggerAdapter(logger log.Logger) watermill.LoggerAdapter {
	return &kratosLogger{
		logger: log.With(logger, "module", "eventbus"),
		fields: watermill.LogFields{},
	}
}

func (l *kratosLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log(log.LevelError, msg, lo.Assign(fields, watermill.LogFields{"error": err}))
}

func (l *kratosLogger) Info(msg string, fields watermill.LogFields) {
	l.log(log.LevelInfo, msg, fields)
}

func (l *kratosLogger) Debug(msg string, fields watermill.LogFields) {
	l.log(log.LevelDebug, msg, fields)
}

func (l *kratosLogger) Trace(msg string, fields watermill.LogFields) {
	l.log(log.LevelDebug, msg, fields)
}

func (l *kratosLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &kratosLogger{
		logger: l.logger,
		fields: lo.Assign(l.fields, fields),
	}
}

// log emits fields in key order so repeated messages line up in the output.
func (l *kratosLogger) log(level log.Level, msg string, fields watermill.LogFields) {
	merged := lo.Assign(l.fields, fields)
	keys := lo.Keys(merged)
	sort.Strings(keys)

	keyvals := make([]any, 0, len(keys)*2+2)
	keyvals = append(keyvals, "msg", msg)
	for _, k := range keys {
		keyvals = append(keyvals, k, merged[k])
	}
	_ = l.logger.Log(level, keyvals...)
}
