package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/venueworks/service-booking/internal/apperr"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain. A booking tracks
// one client event at one venue, its schedule window and its billing state.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	clientID      uuid.UUID
	eventName     string
	venueID       *uuid.UUID
	status        Status

	priceCents   int64
	balanceCents int64
	currency     string

	startAt     *time.Time
	endAt       *time.Time
	cancelledAt *time.Time
	cancelNote  string
	notes       string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "EV-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "EV-" + string(result), nil
}

// NewBooking creates a new Booking aggregate. Bookings without a schedule
// start as drafts; scheduled bookings start pending with the full price
// outstanding.
func NewBooking(
	clientID uuid.UUID,
	eventName string,
	venueID *uuid.UUID,
	startAt, endAt *time.Time,
	priceCents int64,
	currency string,
	notes string,
) (*Booking, error) {
	if clientID == uuid.Nil {
		return nil, apperr.NewValidationError("client ID is required")
	}
	if eventName == "" {
		return nil, apperr.NewValidationError("event name is required")
	}
	if priceCents <= 0 {
		return nil, apperr.NewValidationError("price must be positive")
	}
	if startAt != nil && endAt != nil && !endAt.After(*startAt) {
		return nil, apperr.NewValidationError("event end must be after event start")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	status := StatusPending
	if startAt == nil {
		status = StatusDraft
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		clientID:      clientID,
		eventName:     eventName,
		venueID:       venueID,
		status:        status,
		priceCents:    priceCents,
		balanceCents:  priceCents,
		currency:      currency,
		startAt:       startAt,
		endAt:         endAt,
		notes:         notes,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	clientID uuid.UUID,
	eventName string,
	venueID *uuid.UUID,
	status Status,
	priceCents, balanceCents int64,
	currency string,
	startAt, endAt, cancelledAt *time.Time,
	cancelNote, notes string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		clientID:      clientID,
		eventName:     eventName,
		venueID:       venueID,
		status:        status,
		priceCents:    priceCents,
		balanceCents:  balanceCents,
		currency:      currency,
		startAt:       startAt,
		endAt:         endAt,
		cancelledAt:   cancelledAt,
		cancelNote:    cancelNote,
		notes:         notes,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// ClientID returns the booking client's user ID.
func (b *Booking) ClientID() uuid.UUID { return b.clientID }

// EventName returns the display label for the event.
func (b *Booking) EventName() string { return b.eventName }

// VenueID returns the booked venue's ID, or nil if no venue is assigned.
func (b *Booking) VenueID() *uuid.UUID { return b.venueID }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// PriceCents returns the agreed event price in cents.
func (b *Booking) PriceCents() int64 { return b.priceCents }

// BalanceCents returns the outstanding amount owed in cents. Zero means
// fully paid.
func (b *Booking) BalanceCents() int64 { return b.balanceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// StartAt returns the event start instant, or nil for drafts.
func (b *Booking) StartAt() *time.Time { return b.startAt }

// EndAt returns the event end instant, or nil if not set.
func (b *Booking) EndAt() *time.Time { return b.endAt }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Cancel moves the booking into the manual cancelled status.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return apperr.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// Archive moves the booking into the manual archived status.
func (b *Booking) Archive() error {
	if b.status == StatusArchived {
		return apperr.NewInvalidStateError(string(b.status), string(StatusArchived))
	}
	b.status = StatusArchived
	b.updatedAt = time.Now().UTC()
	return nil
}

// RecordPayment reduces the outstanding balance by the paid amount. The
// balance never goes below zero; overpayments clamp to fully paid.
func (b *Booking) RecordPayment(amountCents int64) error {
	if amountCents <= 0 {
		return apperr.NewValidationError("payment amount must be positive")
	}
	b.balanceCents -= amountCents
	if b.balanceCents < 0 {
		b.balanceCents = 0
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// ApplyDiscount reduces the price by the approved discount amount. The
// outstanding balance shrinks by the same amount since payments already
// made still count.
func (b *Booking) ApplyDiscount(amountCents int64) error {
	if amountCents <= 0 {
		return apperr.NewValidationError("discount amount must be positive")
	}
	if amountCents >= b.priceCents {
		return apperr.NewValidationError("discount cannot exceed the booking price")
	}
	b.priceCents -= amountCents
	b.balanceCents -= amountCents
	if b.balanceCents < 0 {
		b.balanceCents = 0
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reschedule replaces the event window. A draft booking that gains a
// schedule becomes pending so the derivation engine picks it up.
func (b *Booking) Reschedule(startAt, endAt time.Time) error {
	if !endAt.After(startAt) {
		return apperr.NewValidationError("event end must be after event start")
	}
	b.startAt = &startAt
	b.endAt = &endAt
	if b.status == StatusDraft {
		b.status = StatusPending
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// ApplyDerivedStatus records a status computed by the derivation engine.
// Manual statuses are never overwritten here; the engine guards against
// this too, so a violation indicates a caller bug.
func (b *Booking) ApplyDerivedStatus(s Status) error {
	if b.status.IsManual() {
		return apperr.NewInvalidStateError(string(b.status), string(s))
	}
	if !s.IsValid() || s.IsManual() {
		return apperr.NewValidationError(fmt.Sprintf("cannot derive into status %s", s))
	}
	b.status = s
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
