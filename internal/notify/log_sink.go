package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes notifications to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{zap.String("severity", string(n.Severity))}
	if n.Duration > 0 {
		fields = append(fields, zap.Duration("duration", n.Duration))
	}

	switch n.Severity {
	case SeverityError:
		s.logger.Error(n.Message, fields...)
	case SeverityWarning:
		s.logger.Warn(n.Message, fields...)
	default:
		s.logger.Info(n.Message, fields...)
	}
}
