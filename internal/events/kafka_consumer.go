package events

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/kafka"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
)

// ActivityRecorder stores audit trail entries.
type ActivityRecorder interface {
	Record(ctx context.Context, a *bookingDomain.Activity) error
}

var _ ActivityRecorder = (*application.ActivityService)(nil)

// BookingActivityConsumer listens to booking events and turns them into
// audit trail entries.
type BookingActivityConsumer struct {
	consumer *kafka.Consumer
	recorder ActivityRecorder
	logger   *zap.Logger
}

// NewBookingActivityConsumer creates a new BookingActivityConsumer.
func NewBookingActivityConsumer(
	brokers []string,
	groupID string,
	topic string,
	recorder ActivityRecorder,
	logger *zap.Logger,
) *BookingActivityConsumer {
	return &BookingActivityConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *BookingActivityConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.HandleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *BookingActivityConsumer) Close() error {
	return c.consumer.Close()
}

// HandleMessage converts one booking event into an activity entry.
func (c *BookingActivityConsumer) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	activity, err := toActivity(cloudEvent)
	if err != nil {
		c.logger.Error("failed to parse booking event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}
	if activity == nil {
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	return c.recorder.Record(ctx, activity)
}

func toActivity(ce kafka.CloudEvent) (*bookingDomain.Activity, error) {
	switch ce.Type {
	case bookingDomain.EventBookingCreated:
		var evt bookingDomain.BookingCreatedEvent
		if err := ce.ParseData(&evt); err != nil {
			return nil, err
		}
		return &bookingDomain.Activity{
			EventID:    ce.ID,
			BookingID:  evt.BookingID,
			EventType:  ce.Type,
			ActorID:    evt.UserID,
			Status:     bookingDomain.StatusPending.String(),
			Detail:     fmt.Sprintf("%d item(s) from %s to %s, total %s", evt.ItemCount, evt.StartDate, evt.EndDate, evt.TotalPrice.String()),
			OccurredAt: evt.OccurredAt,
		}, nil

	case bookingDomain.EventBookingStatusChanged:
		var evt bookingDomain.BookingStatusChangedEvent
		if err := ce.ParseData(&evt); err != nil {
			return nil, err
		}
		detail := fmt.Sprintf("%s -> %s", evt.PreviousStatus, evt.NewStatus)
		if !evt.InSequence {
			detail += " (outside rental flow)"
		}
		return &bookingDomain.Activity{
			EventID:    ce.ID,
			BookingID:  evt.BookingID,
			EventType:  ce.Type,
			ActorID:    evt.ChangedBy,
			Status:     evt.NewStatus,
			Detail:     detail,
			OccurredAt: evt.OccurredAt,
		}, nil

	case bookingDomain.EventPaymentProofAttached:
		var evt bookingDomain.PaymentProofAttachedEvent
		if err := ce.ParseData(&evt); err != nil {
			return nil, err
		}
		return &bookingDomain.Activity{
			EventID:    ce.ID,
			BookingID:  evt.BookingID,
			EventType:  ce.Type,
			ActorID:    evt.UserID,
			Detail:     "payment proof attached",
			OccurredAt: evt.OccurredAt,
		}, nil

	default:
		return nil, nil
	}
}
