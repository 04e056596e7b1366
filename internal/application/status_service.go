package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/venueworks/service-booking/internal/apperr"
	bookingDomain "github.com/venueworks/service-booking/internal/domain/booking"
	"github.com/venueworks/service-booking/internal/events"
)

// StatusChangeDTO is the response representation of one status transition.
type StatusChangeDTO struct {
	BookingID string `json:"booking_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// StatusService runs derivation passes over the booking set and persists
// the resulting transitions.
type StatusService struct {
	repo     bookingDomain.Repository
	producer events.Publisher
	logger   *zap.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(
	repo bookingDomain.Repository,
	producer events.Publisher,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// RefreshStatuses loads every automatically managed booking, derives its
// correct status at the given instant and persists the transitions. The
// status write is guarded on the old status, so overlapping passes cannot
// double-apply a transition; the pass that loses the race skips the
// booking and its notification, which is the dedup guarantee downstream
// notifiers rely on. The status is persisted before its event is
// published.
//
// Returns the transitions that were actually applied. Running the pass
// again with the same now yields an empty list.
func (s *StatusService) RefreshStatuses(ctx context.Context, now time.Time) ([]StatusChangeDTO, error) {
	bookings, err := s.repo.ListAutomatic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for status refresh: %w", err)
	}

	byID := make(map[string]*bookingDomain.Booking, len(bookings))
	for _, bk := range bookings {
		byID[bk.ID().String()] = bk
	}

	changes := bookingDomain.ComputeStatusChanges(bookings, now)
	applied := make([]StatusChangeDTO, 0, len(changes))

	for _, change := range changes {
		if err := s.repo.UpdateStatus(ctx, change); err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) && appErr.Kind() == apperr.KindConflict {
				// Another pass got there first; its notification covers
				// this transition.
				s.logger.Debug("status change already applied elsewhere",
					zap.String("booking_id", change.BookingID.String()),
				)
				continue
			}
			return applied, fmt.Errorf("failed to persist status change for %s: %w", change.BookingID, err)
		}

		applied = append(applied, StatusChangeDTO{
			BookingID: change.BookingID.String(),
			OldStatus: string(change.OldStatus),
			NewStatus: string(change.NewStatus),
		})

		s.publishStatusChanged(ctx, byID[change.BookingID.String()], change)
	}

	if len(applied) > 0 {
		s.logger.Info("status refresh applied transitions",
			zap.Int("count", len(applied)),
			zap.Time("now", now),
		)
	}

	return applied, nil
}

func (s *StatusService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, change bookingDomain.StatusChange) {
	if s.producer == nil || bk == nil {
		return
	}

	evt := events.BookingStatusChangedEvent{
		BookingID:     change.BookingID,
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		EventName:     bk.EventName(),
		OldStatus:     string(change.OldStatus),
		NewStatus:     string(change.NewStatus),
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, events.TopicBookingEvents, events.BookingStatusChanged, change.BookingID.String(), evt); err != nil {
		s.logger.Error("failed to publish status change event",
			zap.String("booking_id", change.BookingID.String()),
			zap.Error(err),
		)
	}
}
