package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentRecorder is the slice of the booking application service the
// consumer needs. Defined here to keep the dependency one-directional.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, bookingID uuid.UUID, amountCents int64) error
}

// PaymentEventConsumer listens to payment events and applies settled
// payments to booking balances.
type PaymentEventConsumer struct {
	consumer *Consumer
	recorder PaymentRecorder
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	recorder PaymentRecorder,
	logger *zap.Logger,
) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is
// cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentReceived:
		return c.handlePaymentReceived(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentReceived(ctx context.Context, cloudEvent CloudEvent) error {
	var evt PaymentReceivedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentReceivedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment received event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
		zap.Int64("amount_cents", evt.AmountCents),
	)

	if err := c.recorder.RecordPayment(ctx, evt.BookingID, evt.AmountCents); err != nil {
		c.logger.Error("failed to record payment on booking",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
