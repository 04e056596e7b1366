package venue

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for the venue catalog.
type Repository interface {
	// FindByID retrieves a venue by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Venue, error)

	// ListActive retrieves all venues accepting bookings.
	ListActive(ctx context.Context) ([]*Venue, error)

	// ListAll retrieves every venue including deactivated ones (admin).
	ListAll(ctx context.Context) ([]*Venue, error)

	// Save persists a new venue.
	Save(ctx context.Context, venue *Venue) error

	// Update persists changes to an existing venue with optimistic locking.
	Update(ctx context.Context, venue *Venue) error
}
