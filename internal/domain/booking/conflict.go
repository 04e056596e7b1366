package booking

import (
	"time"

	"github.com/google/uuid"
)

// DateSet is the set of calendar days a client is attempting to book.
// Days are compared at date granularity only; time-of-day is discarded.
type DateSet struct {
	days []time.Time
}

// SingleDay returns a DateSet containing one calendar day.
func SingleDay(t time.Time) DateSet {
	return DateSet{days: []time.Time{dayOf(t)}}
}

// Days returns a DateSet containing the given calendar days in order.
func Days(ts ...time.Time) DateSet {
	days := make([]time.Time, 0, len(ts))
	for _, t := range ts {
		days = append(days, dayOf(t))
	}
	return DateSet{days: days}
}

// DayRange returns a DateSet spanning every day from start to end,
// inclusive of both endpoints. An inverted range yields an empty set.
func DayRange(start, end time.Time) DateSet {
	first, last := dayOf(start), dayOf(end)
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return DateSet{days: days}
}

// Members returns the expanded calendar days in iteration order.
func (s DateSet) Members() []time.Time {
	return s.days
}

// IsEmpty reports whether the set contains no days.
func (s DateSet) IsEmpty() bool {
	return len(s.days) == 0
}

// Conflict describes an existing booking whose start date falls within one
// day of a candidate date. Conflicts are advisory: the caller surfaces them
// as warnings and the client may proceed regardless.
type Conflict struct {
	BookingID    uuid.UUID  `json:"booking_id"`
	EventName    string     `json:"event_name"`
	BookingStart time.Time  `json:"booking_start"`
	BookingEnd   *time.Time `json:"booking_end,omitempty"`
	// DaysDifference is candidate day minus booking day, in whole days.
	// 0 = same day, positive = booking before the candidate date,
	// negative = booking after it.
	DaysDifference int       `json:"days_difference"`
	VenueID        uuid.UUID `json:"venue_id"`
}

// FindConflicts scans existing bookings at the given venue for any whose
// start date lands within one calendar day of a candidate date.
//
// The check is intentionally start-date-only: a multi-day booking spanning
// a candidate date is not reported unless its start date itself is nearby.
// This mirrors the product's "nearby booking" warning semantics rather
// than interval overlap.
//
// A nil venue returns no conflicts: the check is deferred until a venue is
// chosen. Bookings without a venue or without a start date are skipped.
// Each booking appears at most once, keyed by the earliest matching
// candidate day.
func FindConflicts(dates DateSet, venueID uuid.UUID, existing []*Booking) []Conflict {
	if venueID == uuid.Nil || dates.IsEmpty() {
		return nil
	}

	var conflicts []Conflict
	seen := make(map[uuid.UUID]bool)

	for _, candidate := range dates.Members() {
		windowStart := candidate.AddDate(0, 0, -1)
		windowEnd := candidate.AddDate(0, 0, 1)

		for _, b := range existing {
			if seen[b.ID()] {
				continue
			}
			if b.VenueID() == nil || *b.VenueID() != venueID {
				continue
			}
			if b.StartAt() == nil {
				continue
			}

			bookingDay := dayOf(*b.StartAt())
			if bookingDay.Before(windowStart) || bookingDay.After(windowEnd) {
				continue
			}

			seen[b.ID()] = true
			conflicts = append(conflicts, Conflict{
				BookingID:      b.ID(),
				EventName:      b.EventName(),
				BookingStart:   *b.StartAt(),
				BookingEnd:     b.EndAt(),
				DaysDifference: daysBetween(bookingDay, candidate),
				VenueID:        venueID,
			})
		}
	}

	return conflicts
}

// dayOf truncates an instant to its calendar day at UTC midnight.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns to minus from in whole days. Both arguments must be
// UTC midnights, so the division is exact.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
