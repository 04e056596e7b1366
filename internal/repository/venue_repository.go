package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venueworks/service-booking/internal/apperr"
	venueDomain "github.com/venueworks/service-booking/internal/domain/venue"
)

// VenueModel is the GORM model for the venues table.
type VenueModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"not null;size:200"`
	Description    string    `gorm:"size:1000"`
	Capacity       int       `gorm:"not null"`
	DailyRateCents int64     `gorm:"not null"`
	Active         bool      `gorm:"not null;default:true;index"`
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VenueModel) TableName() string {
	return "venues"
}

// GormVenueRepository is the GORM-based implementation of the venue
// repository contract.
type GormVenueRepository struct {
	db *gorm.DB
}

// NewGormVenueRepository creates a new GormVenueRepository.
func NewGormVenueRepository(db *gorm.DB) *GormVenueRepository {
	return &GormVenueRepository{db: db}
}

// FindByID retrieves a venue by its unique identifier.
func (r *GormVenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*venueDomain.Venue, error) {
	var model VenueModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Venue", id.String())
		}
		return nil, fmt.Errorf("failed to find venue by ID: %w", err)
	}
	return toDomainVenue(&model), nil
}

// ListActive retrieves all venues accepting bookings.
func (r *GormVenueRepository) ListActive(ctx context.Context) ([]*venueDomain.Venue, error) {
	var models []VenueModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list active venues: %w", err)
	}
	return toDomainVenues(models), nil
}

// ListAll retrieves every venue including deactivated ones (admin).
func (r *GormVenueRepository) ListAll(ctx context.Context) ([]*venueDomain.Venue, error) {
	var models []VenueModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return toDomainVenues(models), nil
}

// Save persists a new venue.
func (r *GormVenueRepository) Save(ctx context.Context, v *venueDomain.Venue) error {
	if err := r.db.WithContext(ctx).Create(toVenueModel(v)).Error; err != nil {
		return fmt.Errorf("failed to save venue: %w", err)
	}
	return nil
}

// Update persists changes to an existing venue with optimistic locking.
func (r *GormVenueRepository) Update(ctx context.Context, v *venueDomain.Venue) error {
	model := toVenueModel(v)

	expectedVersion := v.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&VenueModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":             model.Name,
			"description":      model.Description,
			"capacity":         model.Capacity,
			"daily_rate_cents": model.DailyRateCents,
			"active":           model.Active,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update venue: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NewConflictError("venue was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toVenueModel(v *venueDomain.Venue) *VenueModel {
	return &VenueModel{
		ID:             v.ID(),
		Name:           v.Name(),
		Description:    v.Description(),
		Capacity:       v.Capacity(),
		DailyRateCents: v.DailyRateCents(),
		Active:         v.Active(),
		Version:        v.Version(),
		CreatedAt:      v.CreatedAt(),
		UpdatedAt:      v.UpdatedAt(),
	}
}

func toDomainVenue(m *VenueModel) *venueDomain.Venue {
	return venueDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Description,
		m.Capacity,
		m.DailyRateCents,
		m.Active,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainVenues(models []VenueModel) []*venueDomain.Venue {
	venues := make([]*venueDomain.Venue, len(models))
	for i, m := range models {
		venues[i] = toDomainVenue(&m)
	}
	return venues
}
