package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/venueworks/service-booking/internal/apperr"
	bookingDomain "github.com/venueworks/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BookingNumber string     `gorm:"uniqueIndex;not null;size:20"`
	ClientID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	EventName     string     `gorm:"not null;size:200"`
	VenueID       *uuid.UUID `gorm:"type:uuid;index"`
	Status        string     `gorm:"not null;size:30;index"`
	PriceCents    int64      `gorm:"not null"`
	BalanceCents  int64      `gorm:"not null"`
	Currency      string     `gorm:"not null;size:3;default:'USD'"`
	StartAt       *time.Time `gorm:"index"`
	EndAt         *time.Time `gorm:""`
	CancelledAt   *time.Time `gorm:""`
	CancelNote    string     `gorm:"size:500"`
	Notes         string     `gorm:"size:1000"`
	Version       int64      `gorm:"not null;default:1"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository contract.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByClientID retrieves bookings for a specific client with pagination.
func (r *GormBookingRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("client_id = ?", clientID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count client bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find client bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// FindByVenueID retrieves all bookings assigned to a venue. Cancelled and
// archived bookings are excluded: a cancelled event does not block a date.
func (r *GormBookingRepository) FindByVenueID(ctx context.Context, venueID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("venue_id = ? AND status NOT IN ?", venueID, []string{
			string(bookingDomain.StatusCancelled),
			string(bookingDomain.StatusArchived),
		}).
		Order("start_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find venue bookings: %w", err)
	}

	bookings, _, err := toDomainBookings(models, 0)
	return bookings, err
}

// ListAutomatic retrieves every booking in an automatically derived status.
func (r *GormBookingRepository) ListAutomatic(ctx context.Context) ([]*bookingDomain.Booking, error) {
	statuses := make([]string, 0, len(bookingDomain.AutomaticStatuses))
	for _, s := range bookingDomain.AutomaticStatuses {
		statuses = append(statuses, string(s))
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list automatic bookings: %w", err)
	}

	bookings, _, err := toDomainBookings(models, 0)
	return bookings, err
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"event_name":    model.EventName,
			"venue_id":      model.VenueID,
			"status":        model.Status,
			"price_cents":   model.PriceCents,
			"balance_cents": model.BalanceCents,
			"currency":      model.Currency,
			"start_at":      model.StartAt,
			"end_at":        model.EndAt,
			"cancelled_at":  model.CancelledAt,
			"cancel_note":   model.CancelNote,
			"notes":         model.Notes,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// UpdateStatus writes a derived status change. The WHERE on the old status
// makes overlapping refresh passes harmless: whichever pass writes first
// wins, the other matches zero rows.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, change bookingDomain.StatusChange) error {
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND status = ?", change.BookingID, string(change.OldStatus)).
		Updates(map[string]interface{}{
			"status":     string(change.NewStatus),
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.NewConflictError("booking status was changed by another pass")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
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

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.ClientID,
		m.EventName,
		m.VenueID,
		status,
		m.PriceCents,
		m.BalanceCents,
		m.Currency,
		m.StartAt,
		m.EndAt,
		m.CancelledAt,
		m.CancelNote,
		m.Notes,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
