package application

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/venueworks/service-booking/internal/apperr"
	bookingDomain "github.com/venueworks/service-booking/internal/domain/booking"
)

// fakeBookingRepo is an in-memory booking repository for service tests.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, apperr.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return bk, nil
		}
	}
	return nil, apperr.NewNotFoundError("Booking", number)
}

func (r *fakeBookingRepo) FindByClientID(_ context.Context, clientID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ClientID() == clientID {
			result = append(result, bk)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepo) FindByVenueID(_ context.Context, venueID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.VenueID() != nil && *bk.VenueID() == venueID && bk.Status() != bookingDomain.StatusCancelled && bk.Status() != bookingDomain.StatusArchived {
			result = append(result, bk)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListAutomatic(_ context.Context) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if !bk.Status().IsManual() {
			result = append(result, bk)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*bookingDomain.Booking
	for _, bk := range r.bookings {
		result = append(result, bk)
	}
	return result, int64(len(result)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return apperr.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, change bookingDomain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[change.BookingID]
	if !ok {
		return apperr.NewNotFoundError("Booking", change.BookingID.String())
	}
	if bk.Status() != change.OldStatus {
		return apperr.NewConflictError("booking status was changed by another pass")
	}
	return bk.ApplyDerivedStatus(change.NewStatus)
}

// publishedEvent records one Publish call on the fake publisher.
type publishedEvent struct {
	Topic     string
	EventType string
	Key       string
	Payload   interface{}
}

// fakePublisher records published events for assertions.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(_ context.Context, topic, eventType, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, EventType: eventType, Key: key, Payload: payload})
	return nil
}

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []publishedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			result = append(result, e)
		}
	}
	return result
}
