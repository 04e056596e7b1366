package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics this service produces to and consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types on booking.events.
const (
	BookingRequested     = "booking.requested"
	BookingCancelled     = "booking.cancelled"
	BookingStatusChanged = "booking.status_changed"
	BookingDiscounted    = "booking.discounted"
)

// Event types on payment.events (produced by the payment service).
const (
	PaymentReceived = "payment.received"
)

// BookingRequestedEvent signals a new booking was created.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID  `json:"booking_id"`
	BookingNumber string     `json:"booking_number"`
	ClientID      uuid.UUID  `json:"client_id"`
	EventName     string     `json:"event_name"`
	VenueID       *uuid.UUID `json:"venue_id,omitempty"`
	StartAt       *time.Time `json:"start_at,omitempty"`
	EndAt         *time.Time `json:"end_at,omitempty"`
	PriceCents    int64      `json:"price_cents"`
	ConflictCount int        `json:"conflict_count"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// BookingCancelledEvent signals a booking was cancelled.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent signals one automatic status transition found
// by a derivation pass. Downstream consumers (notification service) decide
// which transitions are user-facing, e.g. entering unpaid triggers a
// payment reminder.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	EventName     string    `json:"event_name"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingDiscountedEvent signals an approved discount was applied.
type BookingDiscountedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	DiscountCents int64     `json:"discount_cents"`
	NewPriceCents int64     `json:"new_price_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentReceivedEvent is consumed from the payment service when a client
// payment settles.
type PaymentReceivedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
