//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venueworks/service-booking/internal/application"
	bookingEvents "github.com/venueworks/service-booking/internal/events"
)

// TestPaymentReceived_ReducesBalanceAndConfirms verifies that when a
// PaymentReceivedEvent is published to payment.events, the booking service
// picks it up, reduces the booking balance, and a subsequent status pass
// moves the fully paid future booking from pending to confirmed.
func TestPaymentReceived_ReducesBalanceAndConfirms(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a pending future booking with an unpaid balance.
	bookingID := uuid.New()
	clientID := uuid.New()
	start := time.Now().UTC().Add(72 * time.Hour)
	end := start.Add(8 * time.Hour)
	seedBooking(t, infra.DB, bookingID, clientID, nil, "pending", &start, &end, 250000, 250000)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish PaymentReceivedEvent settling the full balance.
	evt := bookingEvents.PaymentReceivedEvent{
		PaymentID:   uuid.New(),
		BookingID:   bookingID,
		AmountCents: 250000,
		Currency:    "USD",
		OccurredAt:  time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingEvents.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentReceived, bookingID.String(), evt)

	// Assert: balance reaches zero.
	model := waitForBookingBalance(t, infra.DB, bookingID, 0, 15*time.Second)
	assert.Equal(t, "pending", model.Status, "payment alone does not change status")

	// A derivation pass confirms the now fully paid future booking.
	changes, err := stack.Statuses.RefreshStatuses(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, bookingID.String(), changes[0].BookingID)
	assert.Equal(t, "pending", changes[0].OldStatus)
	assert.Equal(t, "confirmed", changes[0].NewStatus)

	// Assert: BookingStatusChangedEvent on booking.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingEvents.TopicBookingEvents,
		bookingEvents.BookingStatusChanged, 15*time.Second)

	var changed bookingEvents.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, bookingID, changed.BookingID)
	assert.Equal(t, "confirmed", changed.NewStatus)
}

// TestStatusRefresh_PastBookingCompletes verifies the periodic derivation
// pass against real storage: a fully paid booking whose window has passed
// transitions to completed, and a second pass applies nothing.
func TestStatusRefresh_PastBookingCompletes(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	bookingID := uuid.New()
	start := time.Now().UTC().Add(-48 * time.Hour)
	end := start.Add(8 * time.Hour)
	seedBooking(t, infra.DB, bookingID, uuid.New(), nil, "in_progress", &start, &end, 100000, 0)

	ctx := context.Background()
	changes, err := stack.Statuses.RefreshStatuses(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "completed", changes[0].NewStatus)

	again, err := stack.Statuses.RefreshStatuses(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, again, "second pass is a no-op")
}

// TestCreateBooking_ConflictScanAgainstStorage exercises conflict detection
// through the real repository: a second booking at the same venue one day
// later is created with an advisory conflict attached.
func TestCreateBooking_ConflictScanAgainstStorage(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	venueID := uuid.New()
	existingStart := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	existingEnd := existingStart.Add(6 * time.Hour)
	seedBooking(t, infra.DB, uuid.New(), uuid.New(), &venueID, "confirmed", &existingStart, &existingEnd, 50000, 0)

	nextDay := existingStart.Add(24 * time.Hour)
	result, err := stack.Bookings.CreateBooking(ctx, uuid.New(), application.CreateBookingRequest{
		EventName:  "adjacent day event",
		VenueID:    &venueID,
		StartAt:    &nextDay,
		PriceCents: 75000,
	})
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, 1, result.Conflicts[0].DaysDifference)
	assert.Equal(t, "pending", result.Booking.Status, "conflicts are advisory, the booking is still created")
}
