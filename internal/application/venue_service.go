package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	venueDomain "github.com/venueworks/service-booking/internal/domain/venue"
)

// CreateVenueRequest is the request DTO for adding a venue to the catalog.
type CreateVenueRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Capacity       int    `json:"capacity" binding:"required"`
	DailyRateCents int64  `json:"daily_rate_cents"`
}

// UpdateVenueRequest is the request DTO for editing a venue.
type UpdateVenueRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Capacity       int    `json:"capacity" binding:"required"`
	DailyRateCents int64  `json:"daily_rate_cents"`
}

// VenueDTO is the API response representation of a venue.
type VenueDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Capacity       int       `json:"capacity"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// VenueService manages the venue catalog.
type VenueService struct {
	repo   venueDomain.Repository
	logger *zap.Logger
}

// NewVenueService creates a new VenueService.
func NewVenueService(repo venueDomain.Repository, logger *zap.Logger) *VenueService {
	return &VenueService{repo: repo, logger: logger}
}

// CreateVenue adds a venue to the catalog.
func (s *VenueService) CreateVenue(ctx context.Context, req CreateVenueRequest) (*VenueDTO, error) {
	v, err := venueDomain.NewVenue(req.Name, req.Description, req.Capacity, req.DailyRateCents)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	result := toVenueDTO(v)
	return &result, nil
}

// GetVenue returns one venue by ID.
func (s *VenueService) GetVenue(ctx context.Context, venueID uuid.UUID) (*VenueDTO, error) {
	v, err := s.repo.FindByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	result := toVenueDTO(v)
	return &result, nil
}

// ListVenues returns the active venue catalog.
func (s *VenueService) ListVenues(ctx context.Context) ([]VenueDTO, error) {
	venues, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toVenueDTOs(venues), nil
}

// UpdateVenue replaces a venue's editable fields.
func (s *VenueService) UpdateVenue(ctx context.Context, venueID uuid.UUID, req UpdateVenueRequest) (*VenueDTO, error) {
	v, err := s.repo.FindByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	if err := v.UpdateDetails(req.Name, req.Description, req.Capacity, req.DailyRateCents); err != nil {
		return nil, err
	}

	v.IncrementVersion()
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}

	result := toVenueDTO(v)
	return &result, nil
}

// DeactivateVenue removes a venue from the bookable catalog.
func (s *VenueService) DeactivateVenue(ctx context.Context, venueID uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, venueID)
	if err != nil {
		return err
	}

	v.Deactivate()
	v.IncrementVersion()
	if err := s.repo.Update(ctx, v); err != nil {
		return err
	}

	s.logger.Info("venue deactivated", zap.String("venue_id", venueID.String()))
	return nil
}

func toVenueDTO(v *venueDomain.Venue) VenueDTO {
	return VenueDTO{
		ID:             v.ID(),
		Name:           v.Name(),
		Description:    v.Description(),
		Capacity:       v.Capacity(),
		DailyRateCents: v.DailyRateCents(),
		Active:         v.Active(),
		CreatedAt:      v.CreatedAt(),
		UpdatedAt:      v.UpdatedAt(),
	}
}

func toVenueDTOs(venues []*venueDomain.Venue) []VenueDTO {
	dtos := make([]VenueDTO, len(venues))
	for i, v := range venues {
		dtos[i] = toVenueDTO(v)
	}
	return dtos
}
