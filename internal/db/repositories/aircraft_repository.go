package repositories

import (
	"context"
	"fmt"

	models "smartpark-alliance/smartpark/internal/models/gorm"

	"gorm.io/gorm"
)

// AircraftRepository handles aircraft table operations
type AircraftRepository struct {
	db *gorm.DB
}

// NewAircraftRepository creates a new aircraft repository
func NewAircraftRepository(db *gorm.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// GetByID retrieves an aircraft by ID, nil when not found
func (r *AircraftRepository) GetByID(ctx context.Context, aircraftID string) (*models.Aircraft, error) {
	var aircraft models.Aircraft

	err := r.db.WithContext(ctx).
		Where("id = ?", aircraftID).
		First(&aircraft).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch aircraft: %w", err)
	}

	return &aircraft, nil
}

// GetByRegistration retrieves an aircraft by its registration, nil when not
// found. Flight creation reuses an existing airframe through this lookup.
func (r *AircraftRepository) GetByRegistration(ctx context.Context, registration string) (*models.Aircraft, error) {
	var aircraft models.Aircraft

	err := r.db.WithContext(ctx).
		Where("UPPER(registration) = UPPER(?)", registration).
		First(&aircraft).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch aircraft: %w", err)
	}

	return &aircraft, nil
}

// Create inserts a new aircraft
func (r *AircraftRepository) Create(ctx context.Context, aircraft *models.Aircraft) error {
	if err := r.db.WithContext(ctx).Create(aircraft).Error; err != nil {
		return fmt.Errorf("failed to create aircraft: %w", err)
	}
	return nil
}

// Update persists changes to an existing aircraft
func (r *AircraftRepository) Update(ctx context.Context, aircraft *models.Aircraft) error {
	if err := r.db.WithContext(ctx).Save(aircraft).Error; err != nil {
		return fmt.Errorf("failed to update aircraft: %w", err)
	}
	return nil
}

// List returns all aircraft ordered by registration
func (r *AircraftRepository) List(ctx context.Context) ([]models.Aircraft, error) {
	var fleet []models.Aircraft

	err := r.db.WithContext(ctx).
		Order("registration ASC").
		Find(&fleet).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}

	return fleet, nil
}
