package booking

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange records one booking's automatic status transition during a
// single derivation pass.
type StatusChange struct {
	BookingID uuid.UUID `json:"booking_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// DeriveStatus computes the lifecycle status a booking should be in at the
// given instant. It is pure and total: it never mutates the booking and
// always returns a status.
//
// Manual statuses (cancelled, archived, draft) are returned unchanged — a
// human put the booking there and only a human takes it out. Bookings
// whose schedule cannot place "now" relative to the event window also keep
// their current status.
//
// "No payment yet" is expressed as balance equal to the full price, which
// is how the billing records track it; any partial payment before the
// event confirms the booking.
func DeriveStatus(b *Booking, now time.Time) Status {
	current := b.Status()
	if current.IsManual() {
		return current
	}

	start := b.StartAt()
	if start == nil {
		return current
	}

	if now.Before(*start) {
		if b.BalanceCents() >= b.PriceCents() {
			return StatusPending
		}
		return StatusConfirmed
	}

	end := b.EndAt()
	if end == nil {
		// Event has started but has no end; in-progress vs. finished is
		// undecidable, so leave the stored status alone.
		return current
	}

	if now.Before(*end) {
		return StatusInProgress
	}

	if b.BalanceCents() > 0 {
		return StatusUnpaid
	}
	return StatusCompleted
}

// ComputeStatusChanges runs DeriveStatus over every booking and collects
// the ones whose stored status differs from the derived one. Bookings in
// manual statuses are skipped entirely.
//
// The pass is idempotent: once the returned changes are persisted, running
// it again with the same now yields an empty list. It performs no I/O; the
// caller owns persisting the changes and any notification fan-out.
func ComputeStatusChanges(bookings []*Booking, now time.Time) []StatusChange {
	var changes []StatusChange
	for _, b := range bookings {
		if b.Status().IsManual() {
			continue
		}
		derived := DeriveStatus(b, now)
		if derived != b.Status() {
			changes = append(changes, StatusChange{
				BookingID: b.ID(),
				OldStatus: b.Status(),
				NewStatus: derived,
			})
		}
	}
	return changes
}
