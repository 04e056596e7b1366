// Package venue holds the venue (pavilion) catalog aggregate.
package venue

import (
	"time"

	"github.com/google/uuid"

	"github.com/venueworks/service-booking/internal/apperr"
)

// Venue is the aggregate root for a bookable pavilion.
type Venue struct {
	id            uuid.UUID
	name          string
	description   string
	capacity      int
	dailyRateCents int64
	active        bool
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
}

// NewVenue creates an active venue with validated fields.
func NewVenue(name, description string, capacity int, dailyRateCents int64) (*Venue, error) {
	if name == "" {
		return nil, apperr.NewValidationError("venue name is required")
	}
	if capacity <= 0 {
		return nil, apperr.NewValidationError("venue capacity must be positive")
	}
	if dailyRateCents < 0 {
		return nil, apperr.NewValidationError("daily rate cannot be negative")
	}

	now := time.Now().UTC()
	return &Venue{
		id:             uuid.New(),
		name:           name,
		description:    description,
		capacity:       capacity,
		dailyRateCents: dailyRateCents,
		active:         true,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Venue from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, description string,
	capacity int,
	dailyRateCents int64,
	active bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Venue {
	return &Venue{
		id:             id,
		name:           name,
		description:    description,
		capacity:       capacity,
		dailyRateCents: dailyRateCents,
		active:         active,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the venue's unique identifier.
func (v *Venue) ID() uuid.UUID { return v.id }

// Name returns the venue's display name.
func (v *Venue) Name() string { return v.name }

// Description returns the venue's description.
func (v *Venue) Description() string { return v.description }

// Capacity returns the maximum number of guests.
func (v *Venue) Capacity() int { return v.capacity }

// DailyRateCents returns the base daily rate in cents.
func (v *Venue) DailyRateCents() int64 { return v.dailyRateCents }

// Active reports whether the venue accepts new bookings.
func (v *Venue) Active() bool { return v.active }

// Version returns the entity version for optimistic locking.
func (v *Venue) Version() int64 { return v.version }

// CreatedAt returns the creation timestamp.
func (v *Venue) CreatedAt() time.Time { return v.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (v *Venue) UpdatedAt() time.Time { return v.updatedAt }

// Deactivate takes the venue out of the bookable catalog. Existing
// bookings are unaffected.
func (v *Venue) Deactivate() {
	v.active = false
	v.updatedAt = time.Now().UTC()
}

// UpdateDetails replaces the venue's editable fields.
func (v *Venue) UpdateDetails(name, description string, capacity int, dailyRateCents int64) error {
	if name == "" {
		return apperr.NewValidationError("venue name is required")
	}
	if capacity <= 0 {
		return apperr.NewValidationError("venue capacity must be positive")
	}
	if dailyRateCents < 0 {
		return apperr.NewValidationError("daily rate cannot be negative")
	}
	v.name = name
	v.description = description
	v.capacity = capacity
	v.dailyRateCents = dailyRateCents
	v.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (v *Venue) IncrementVersion() {
	v.version++
	v.updatedAt = time.Now().UTC()
}
