package notify

import (
	"context"
	"time"

	"lineup/pkg/kafka"
	"lineup/pkg/logger"
	"lineup/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCheckedIn = "booking.checked_in"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventBookingNoShow    = "booking.no_show"

	publishTimeout = 5 * time.Second
)

// Notifier delivers booking lifecycle events to interested consumers.
// Delivery is best effort; lifecycle transitions never fail on a delivery
// error.
type Notifier interface {
	Notify(ctx context.Context, eventType string, booking *model.Booking)
}

type kafkaNotifier struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, log *logger.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		log:      log,
	}
}

func (n *kafkaNotifier) Notify(ctx context.Context, eventType string, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSource("bookings").
		Build()

	// Detached from the request context so an already-finished request does
	// not cancel the publish.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.producer.Publish(publishCtx, msg); err != nil {
		n.log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	n.log.Debug("Booking event published", "event_type", eventType, "booking_id", booking.ID)
}

// NopNotifier discards events; used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, eventType string, booking *model.Booking) {}
