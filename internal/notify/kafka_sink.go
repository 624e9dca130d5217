package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// UsernameFunc returns the user a notification belongs to, empty when nobody
// is logged in.
type UsernameFunc func(ctx context.Context) string

// KafkaSink publishes notifications as JSON to a topic so that a separate
// notification service can deliver them.
type KafkaSink struct {
	writer   messageWriter
	username UsernameFunc
	logger   *zap.Logger
	timeout  time.Duration
}

type kafkaNotification struct {
	Notification
	DurationMS int64     `json:"duration_ms,omitempty"`
	Username   string    `json:"username,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// NewKafkaSink publishes to topic. username is called for every notification
// so that a login in the same process is reflected immediately.
func NewKafkaSink(topic string, username UsernameFunc, logger *zap.Logger, brokers ...string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaSink(w, username, logger)
}

func newKafkaSink(w messageWriter, username UsernameFunc, logger *zap.Logger) *KafkaSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if username == nil {
		username = func(context.Context) string { return "" }
	}
	return &KafkaSink{writer: w, username: username, logger: logger, timeout: 5 * time.Second}
}

func (s *KafkaSink) Notify(ctx context.Context, n Notification) {
	username := s.username(ctx)
	payload, err := json.Marshal(kafkaNotification{
		Notification: n,
		DurationMS:   n.Duration.Milliseconds(),
		Username:     username,
		SentAt:       time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to marshal notification", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(username),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "severity", Value: []byte(n.Severity)},
		},
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.writer.WriteMessages(writeCtx, msg); err != nil {
		s.logger.Warn("failed to publish notification", zap.Error(err), zap.String("severity", string(n.Severity)))
	}
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
