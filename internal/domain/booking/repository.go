package booking

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByClientID retrieves bookings belonging to a client with pagination.
	FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByVenueID retrieves all bookings assigned to a venue. This is the
	// input snapshot for the conflict scan.
	FindByVenueID(ctx context.Context, venueID uuid.UUID) ([]*Booking, error)

	// ListAutomatic retrieves every booking whose status is not manual.
	// This is the input snapshot for the status refresh pass.
	ListAutomatic(ctx context.Context) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// UpdateStatus writes only a derived status change. The guard on the
	// old status makes concurrent refresh passes last-write-wins safe.
	UpdateStatus(ctx context.Context, change StatusChange) error
}
