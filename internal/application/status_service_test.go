package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/venueworks/service-booking/internal/domain/booking"
	"github.com/venueworks/service-booking/internal/events"
)

func seedBooking(t *testing.T, repo *fakeBookingRepo, status bookingDomain.Status, start, end time.Time, priceCents, balanceCents int64) *bookingDomain.Booking {
	t.Helper()
	now := time.Now().UTC()
	bk := bookingDomain.ReconstructBooking(
		uuid.New(), "EV-"+uuid.NewString()[:6], uuid.New(), "Seeded event", nil,
		status, priceCents, balanceCents, "USD",
		&start, &end, nil, "", "", 1, now, now,
	)
	require.NoError(t, repo.Save(context.Background(), bk))
	return bk
}

func TestRefreshStatuses_AppliesAndPublishesTransitions(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	svc := NewStatusService(repo, pub, zap.NewNop())
	ctx := context.Background()

	start := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	paid := seedBooking(t, repo, bookingDomain.StatusPending, start, end, 1000, 0)
	owing := seedBooking(t, repo, bookingDomain.StatusPending, start, end, 1000, 500)
	cancelled := seedBooking(t, repo, bookingDomain.StatusCancelled, start, end, 1000, 0)

	changes, err := svc.RefreshStatuses(ctx, now)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	byID := make(map[string]StatusChangeDTO)
	for _, c := range changes {
		byID[c.BookingID] = c
	}
	assert.Equal(t, "completed", byID[paid.ID().String()].NewStatus)
	assert.Equal(t, "unpaid", byID[owing.ID().String()].NewStatus)

	// Transitions were persisted.
	stored, err := repo.FindByID(ctx, paid.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCompleted, stored.Status())

	// Manual booking untouched.
	stored, err = repo.FindByID(ctx, cancelled.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusCancelled, stored.Status())

	// One event per applied transition, on the booking topic.
	published := pub.byType(events.BookingStatusChanged)
	require.Len(t, published, 2)
	assert.Equal(t, events.TopicBookingEvents, published[0].Topic)
	evt, ok := published[0].Payload.(events.BookingStatusChangedEvent)
	require.True(t, ok)
	assert.NotEmpty(t, evt.BookingNumber)
}

func TestRefreshStatuses_Idempotent(t *testing.T) {
	repo := newFakeBookingRepo()
	pub := &fakePublisher{}
	svc := NewStatusService(repo, pub, zap.NewNop())
	ctx := context.Background()

	start := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	seedBooking(t, repo, bookingDomain.StatusPending, start, end, 1000, 0)

	first, err := svc.RefreshStatuses(ctx, now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.RefreshStatuses(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, second, "second pass with the same now applies nothing")

	assert.Len(t, pub.byType(events.BookingStatusChanged), 1, "no duplicate notifications")
}

// staleListRepo serves a snapshot taken before a concurrent pass won the
// status write, so the guarded update sees a mismatched old status.
type staleListRepo struct {
	*fakeBookingRepo
	stale []*bookingDomain.Booking
}

func (r *staleListRepo) ListAutomatic(context.Context) ([]*bookingDomain.Booking, error) {
	return r.stale, nil
}

func TestRefreshStatuses_SkipsRacedTransitions(t *testing.T) {
	inner := newFakeBookingRepo()
	pub := &fakePublisher{}
	ctx := context.Background()

	start := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 5, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	bk := seedBooking(t, inner, bookingDomain.StatusPending, start, end, 1000, 0)

	stale := bookingDomain.ReconstructBooking(
		bk.ID(), bk.BookingNumber(), bk.ClientID(), bk.EventName(), nil,
		bookingDomain.StatusPending, 1000, 0, "USD",
		&start, &end, nil, "", "", 1, bk.CreatedAt(), bk.UpdatedAt(),
	)
	repo := &staleListRepo{fakeBookingRepo: inner, stale: []*bookingDomain.Booking{stale}}
	svc := NewStatusService(repo, pub, zap.NewNop())

	// A concurrent pass wins the write before this pass gets to it.
	require.NoError(t, inner.UpdateStatus(ctx, bookingDomain.StatusChange{
		BookingID: bk.ID(),
		OldStatus: bookingDomain.StatusPending,
		NewStatus: bookingDomain.StatusCompleted,
	}))

	changes, err := svc.RefreshStatuses(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, changes, "lost race is skipped, not an error")
	assert.Empty(t, pub.byType(events.BookingStatusChanged), "losing pass sends no notification")
}

func TestRefreshStatuses_EmptySet(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewStatusService(repo, &fakePublisher{}, zap.NewNop())

	changes, err := svc.RefreshStatuses(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, changes)
}
