package events

import (
	"context"
	"time"

	"queendoctor/pkg/kafka"
	"queendoctor/pkg/logger"
)

const (
	BookingCreated       = "booking.created"
	BookingStatusUpdated = "booking.status_updated"
	BookingDeleted       = "booking.deleted"

	SchemaVersion = "1"
)

// Event describes a booking write that already succeeded.
type Event struct {
	Type      string    `json:"event_type"`
	BookingID string    `json:"booking_id"`
	At        time.Time `json:"occurred_at"`
	Data      any       `json:"data,omitempty"`
}

// Publisher announces booking writes. Implementations never fail the
// caller: delivery problems are theirs to log.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer messagePublisher
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(producer messagePublisher, source string, timeout time.Duration, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
		timeout:  timeout,
		log:      log,
	}
}

// Publish writes the event synchronously. The HTTP request may already be
// finishing, so its cancellation is detached and only the publish timeout
// applies.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	requestID := logger.RequestIDFromContext(ctx)
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithEventType(event.Type).
		WithCorrelationID(requestID).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithValue(event).
		Build()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		p.log.Ctx(ctx).Warn("Booking event not published",
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}
