package kafka_middleware

import (
	"context"
	"time"

	"queendoctor/pkg/kafka"
	"queendoctor/pkg/logger"
)

// LoggingProducerMiddleware logs message publishing operations
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		l := log.Ctx(ctx).With(
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
		)

		l.Debug("Publishing Kafka message")

		err := next(ctx, msg)
		if err != nil {
			l.Error("Failed to publish Kafka message", "duration_ms", time.Since(start).Milliseconds(), "error", err)
			return err
		}

		l.Info("Published Kafka message", "duration_ms", time.Since(start).Milliseconds())
		return nil
	}
}
