package repositories

import (
	"context"
	"fmt"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	models "smartpark-alliance/smartpark/internal/models/gorm"

	"gorm.io/gorm"
)

// StandRepository handles stand table operations
type StandRepository struct {
	db *gorm.DB
}

// NewStandRepository creates a new stand repository
func NewStandRepository(db *gorm.DB) *StandRepository {
	return &StandRepository{db: db}
}

// EligibleStands returns all stands that may receive a new allocation:
// available (not under maintenance) and without any active incident.
// Ordered by distance to terminal ascending so that closer stands are
// scanned first; the allocation policy depends on this ordering.
func (r *StandRepository) EligibleStands(ctx context.Context) ([]models.Stand, error) {
	var stands []models.Stand

	blocked := r.db.Model(&models.Incident{}).
		Select("stand_id").
		Where("status IN ?", constants.ActiveIncidentStatuses)

	err := r.db.WithContext(ctx).
		Where("availability = ?", true).
		Where("id NOT IN (?)", blocked).
		Order("distance_to_terminal ASC").
		Find(&stands).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible stands: %w", err)
	}

	return stands, nil
}

// GetByID retrieves a stand by its ID, nil when not found
func (r *StandRepository) GetByID(ctx context.Context, standID string) (*models.Stand, error) {
	var stand models.Stand

	err := r.db.WithContext(ctx).
		Where("id = ?", standID).
		First(&stand).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch stand: %w", err)
	}

	return &stand, nil
}

// GetByName retrieves a stand by its operational name, nil when not found
func (r *StandRepository) GetByName(ctx context.Context, name string) (*models.Stand, error) {
	var stand models.Stand

	err := r.db.WithContext(ctx).
		Where("operational_name = ?", name).
		First(&stand).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch stand: %w", err)
	}

	return &stand, nil
}

// List returns all stands ordered by operational name
func (r *StandRepository) List(ctx context.Context) ([]models.Stand, error) {
	var stands []models.Stand

	err := r.db.WithContext(ctx).
		Order("operational_name ASC").
		Find(&stands).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list stands: %w", err)
	}

	return stands, nil
}

// Create inserts a new stand. Availability is forced to true on creation.
func (r *StandRepository) Create(ctx context.Context, stand *models.Stand) error {
	stand.Availability = true
	if err := r.db.WithContext(ctx).Create(stand).Error; err != nil {
		return fmt.Errorf("failed to create stand: %w", err)
	}
	return nil
}

// Update persists changes to an existing stand
func (r *StandRepository) Update(ctx context.Context, stand *models.Stand) error {
	if err := r.db.WithContext(ctx).Save(stand).Error; err != nil {
		return fmt.Errorf("failed to update stand: %w", err)
	}
	return nil
}

// SetAvailability flips the manual maintenance flag on a stand
func (r *StandRepository) SetAvailability(ctx context.Context, standID string, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Stand{}).
		Where("id = ?", standID).
		Update("availability", available)

	if result.Error != nil {
		return fmt.Errorf("failed to update stand availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("stand not found: %s", standID)
	}
	return nil
}

// Delete removes a stand. Deletion is refused while the stand still has
// allocated flights starting in the future.
func (r *StandRepository) Delete(ctx context.Context, standID string, now time.Time) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Where("occupation_start > ?", now).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check future allocations: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%s: %d future flight(s) still allocated", constants.MsgStandHasFutureFlights, count)
	}

	if err := r.db.WithContext(ctx).Delete(&models.Stand{}, "id = ?", standID).Error; err != nil {
		return fmt.Errorf("failed to delete stand: %w", err)
	}
	return nil
}
