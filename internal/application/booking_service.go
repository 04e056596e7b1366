package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venueworks/service-booking/internal/apperr"
	bookingDomain "github.com/venueworks/service-booking/internal/domain/booking"
	"github.com/venueworks/service-booking/internal/events"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	EventName  string     `json:"event_name" binding:"required"`
	VenueID    *uuid.UUID `json:"venue_id"`
	StartAt    *time.Time `json:"start_at"`
	EndAt      *time.Time `json:"end_at"`
	PriceCents int64      `json:"price_cents" binding:"required"`
	Currency   string     `json:"currency"`
	Notes      string     `json:"notes"`
}

// CheckConflictsRequest holds candidate dates for a standalone conflict scan.
// Either Dates or the RangeStart/RangeEnd pair must be supplied.
type CheckConflictsRequest struct {
	VenueID    uuid.UUID    `json:"venue_id" binding:"required"`
	Dates      []time.Time  `json:"dates"`
	RangeStart *time.Time   `json:"range_start"`
	RangeEnd   *time.Time   `json:"range_end"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID  `json:"id"`
	BookingNumber string     `json:"booking_number"`
	ClientID      uuid.UUID  `json:"client_id"`
	EventName     string     `json:"event_name"`
	VenueID       *uuid.UUID `json:"venue_id,omitempty"`
	Status        string     `json:"status"`
	PriceCents    int64      `json:"price_cents"`
	BalanceCents  int64      `json:"balance_cents"`
	Currency      string     `json:"currency"`
	StartAt       *time.Time `json:"start_at,omitempty"`
	EndAt         *time.Time `json:"end_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CancelNote    string     `json:"cancel_note,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateBookingResult pairs the created booking with any advisory
// conflicts found on its venue. Conflicts never block creation.
type CreateBookingResult struct {
	Booking   BookingDTO               `json:"booking"`
	Conflicts []bookingDomain.Conflict `json:"conflicts,omitempty"`
}

// PagedBookings is a page of bookings with its total count.
type PagedBookings struct {
	Items []BookingDTO
	Total int64
	Page  int
	Limit int
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo     bookingDomain.Repository
	producer events.Publisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	producer events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking creates a new booking for the given client. When the
// booking has a venue and a start date, nearby bookings at the same venue
// are scanned and returned as advisory conflicts.
func (s *BookingService) CreateBooking(ctx context.Context, clientID uuid.UUID, req CreateBookingRequest) (*CreateBookingResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	bk, err := bookingDomain.NewBooking(
		clientID,
		req.EventName,
		req.VenueID,
		req.StartAt,
		req.EndAt,
		req.PriceCents,
		currency,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	var conflicts []bookingDomain.Conflict
	if req.VenueID != nil && req.StartAt != nil {
		existing, err := s.repo.FindByVenueID(ctx, *req.VenueID)
		if err != nil {
			return nil, fmt.Errorf("failed to load venue bookings for conflict scan: %w", err)
		}

		dates := bookingDomain.SingleDay(*req.StartAt)
		if req.EndAt != nil {
			dates = bookingDomain.DayRange(*req.StartAt, *req.EndAt)
		}
		conflicts = bookingDomain.FindConflicts(dates, *req.VenueID, existing)
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	evt := events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		EventName:     bk.EventName(),
		VenueID:       bk.VenueID(),
		StartAt:       bk.StartAt(),
		EndAt:         bk.EndAt(),
		PriceCents:    bk.PriceCents(),
		ConflictCount: len(conflicts),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingRequested, bk.ID().String(), evt)

	return &CreateBookingResult{
		Booking:   toBookingDTO(bk),
		Conflicts: conflicts,
	}, nil
}

// CheckConflicts runs the conflict scan for candidate dates without
// creating anything. Used by the booking form before submission.
func (s *BookingService) CheckConflicts(ctx context.Context, req CheckConflictsRequest) ([]bookingDomain.Conflict, error) {
	if req.VenueID == uuid.Nil {
		return nil, nil
	}

	var dates bookingDomain.DateSet
	switch {
	case len(req.Dates) > 0:
		dates = bookingDomain.Days(req.Dates...)
	case req.RangeStart != nil && req.RangeEnd != nil:
		dates = bookingDomain.DayRange(*req.RangeStart, *req.RangeEnd)
	case req.RangeStart != nil:
		dates = bookingDomain.SingleDay(*req.RangeStart)
	default:
		return nil, apperr.NewValidationError("candidate dates are required")
	}

	existing, err := s.repo.FindByVenueID(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load venue bookings for conflict scan: %w", err)
	}

	return bookingDomain.FindConflicts(dates, req.VenueID, existing), nil
}

// GetBooking returns one booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetClientBookings returns a page of the client's bookings.
func (s *BookingService) GetClientBookings(ctx context.Context, clientID uuid.UUID, page, limit int) (*PagedBookings, error) {
	bookings, total, err := s.repo.FindByClientID(ctx, clientID, page, limit)
	if err != nil {
		return nil, err
	}
	return &PagedBookings{Items: toBookingDTOs(bookings), Total: total, Page: page, Limit: limit}, nil
}

// ListAllBookings returns a page of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*PagedBookings, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &PagedBookings{Items: toBookingDTOs(bookings), Total: total, Page: page, Limit: limit}, nil
}

// GetStatusCounts returns booking counts per status (admin dashboard).
func (s *BookingService) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStatus(ctx)
}

// CancelBooking cancels a booking on behalf of its client.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, clientID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.ClientID() != clientID {
		return nil, apperr.NewForbiddenError("booking belongs to another client")
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCancelled, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ArchiveBooking moves a booking into the manual archived status (admin).
func (s *BookingService) ArchiveBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Archive(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// RecordPayment applies a settled payment to the booking's balance. It is
// called both by the payments HTTP endpoint and the payment event consumer.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID uuid.UUID, amountCents int64) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.RecordPayment(amountCents); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("payment recorded",
		zap.String("booking_id", bk.ID().String()),
		zap.Int64("amount_cents", amountCents),
		zap.Int64("balance_cents", bk.BalanceCents()),
	)
	return nil
}

// ApproveDiscount applies an approved discount to a booking (manager).
func (s *BookingService) ApproveDiscount(ctx context.Context, bookingID uuid.UUID, amountCents int64) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.ApplyDiscount(amountCents); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingDiscountedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		DiscountCents: amountCents,
		NewPriceCents: bk.PriceCents(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingDiscounted, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, payload interface{}) {
	if s.producer == nil {
		return
	}
	if err := s.producer.Publish(ctx, events.TopicBookingEvents, eventType, key, payload); err != nil {
		// Event publication is best-effort; the booking state is already
		// persisted and must not be rolled back over a broker hiccup.
		s.logger.Error("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// --- DTO Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		EventName:     bk.EventName(),
		VenueID:       bk.VenueID(),
		Status:        string(bk.Status()),
		PriceCents:    bk.PriceCents(),
		BalanceCents:  bk.BalanceCents(),
		Currency:      bk.Currency(),
		StartAt:       bk.StartAt(),
		EndAt:         bk.EndAt(),
		CancelledAt:   bk.CancelledAt(),
		CancelNote:    bk.CancelNote(),
		Notes:         bk.Notes(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
