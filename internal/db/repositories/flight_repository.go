package repositories

import (
	"context"
	"fmt"
	"time"

	"smartpark-alliance/smartpark/internal/constants"
	models "smartpark-alliance/smartpark/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlightRepository handles flight table operations.
//
// Status and stand reference are always written together: a flight's stand
// is set iff its status is ALLOCATED, and every transition here is a single
// UPDATE so a storage failure can never leave a half-allocated row.
type FlightRepository struct {
	db *gorm.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// GetByID retrieves a flight with its aircraft and stand, nil when not found
func (r *FlightRepository) GetByID(ctx context.Context, flightID string) (*models.Flight, error) {
	var flight models.Flight

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Stand").
		Where("id = ?", flightID).
		First(&flight).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight: %w", err)
	}

	return &flight, nil
}

// PendingFlights returns PENDING flights ordered by occupation start
// ascending (earliest first). When ids is non-empty the result is restricted
// to that subset; flights in the subset that are no longer PENDING are
// silently dropped.
func (r *FlightRepository) PendingFlights(ctx context.Context, ids []string) ([]models.Flight, error) {
	var flights []models.Flight

	q := r.db.WithContext(ctx).
		Preload("Aircraft").
		Where("status = ?", constants.FlightPending)

	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	err := q.Order("occupation_start ASC").Find(&flights).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending flights: %w", err)
	}

	return flights, nil
}

// HasConflict reports whether the stand already carries an ALLOCATED flight
// whose occupation interval truly overlaps [start, end). Half-open interval
// semantics: an existing flight ending exactly at start, or starting exactly
// at end, does not conflict.
func (r *FlightRepository) HasConflict(ctx context.Context, standID string, start, end time.Time) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Where("occupation_end > ? AND occupation_start < ?", start, end).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check stand conflicts: %w", err)
	}

	return count > 0, nil
}

// CommitAllocation atomically moves a PENDING flight to ALLOCATED on the
// given stand. The status guard makes the commit a no-op if the flight was
// picked up by a concurrent run in the meantime.
func (r *FlightRepository) CommitAllocation(ctx context.Context, flightID, standID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("id = ? AND status = ?", flightID, constants.FlightPending).
		Updates(map[string]interface{}{
			"status":   constants.FlightAllocated,
			"stand_id": standID,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to commit allocation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("flight %s is no longer pending", flightID)
	}
	return nil
}

// ResetToPending atomically moves an ALLOCATED flight back to PENDING and
// clears its stand
func (r *FlightRepository) ResetToPending(ctx context.Context, flightID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("id = ? AND status = ?", flightID, constants.FlightAllocated).
		Updates(map[string]interface{}{
			"status":   constants.FlightPending,
			"stand_id": nil,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to reset flight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("flight %s is not allocated", flightID)
	}
	return nil
}

// BulkReset moves a set of flights back to PENDING with no stand in one
// UPDATE statement
func (r *FlightRepository) BulkReset(ctx context.Context, flightIDs []string) error {
	if len(flightIDs) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("id IN ?", flightIDs).
		Updates(map[string]interface{}{
			"status":   constants.FlightPending,
			"stand_id": nil,
		}).Error

	if err != nil {
		return fmt.Errorf("failed to bulk reset flights: %w", err)
	}
	return nil
}

// FutureAllocatedOnStand returns flights allocated to the stand whose
// occupation has not started yet. Flights already in progress or past are
// excluded: an incident never disturbs an aircraft already on the stand.
func (r *FlightRepository) FutureAllocatedOnStand(ctx context.Context, standID string, now time.Time) ([]models.Flight, error) {
	var flights []models.Flight

	err := r.db.WithContext(ctx).
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Where("occupation_start > ?", now).
		Order("occupation_start ASC").
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch future allocations: %w", err)
	}

	return flights, nil
}

// AllocatedOnStand returns all flights currently allocated to the stand,
// ordered by occupation start
func (r *FlightRepository) AllocatedOnStand(ctx context.Context, standID string) ([]models.Flight, error) {
	var flights []models.Flight

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Order("occupation_start ASC").
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch stand allocations: %w", err)
	}

	return flights, nil
}

// HasAllocatedOnStand reports whether the stand has at least one ALLOCATED
// flight, regardless of interval. This is the coarse OCCUPIED signal used by
// the derived operational state.
func (r *FlightRepository) HasAllocatedOnStand(ctx context.Context, standID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to count stand allocations: %w", err)
	}

	return count > 0, nil
}

// OccupantAt returns the allocated flight whose occupation interval contains
// the given instant, nil when the stand is physically empty. At most one such
// flight is expected; First is safe even if that expectation is violated.
func (r *FlightRepository) OccupantAt(ctx context.Context, standID string, at time.Time) (*models.Flight, error) {
	var flight models.Flight

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Where("stand_id = ?", standID).
		Where("status = ?", constants.FlightAllocated).
		Where("occupation_start <= ? AND occupation_end > ?", at, at).
		Order("occupation_start ASC").
		First(&flight).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch current occupant: %w", err)
	}

	return &flight, nil
}

// ElapsedAllocated returns ALLOCATED flights whose occupation end has passed,
// the input of the archival sweep
func (r *FlightRepository) ElapsedAllocated(ctx context.Context, now time.Time) ([]models.Flight, error) {
	var flights []models.Flight

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Stand").
		Where("status = ?", constants.FlightAllocated).
		Where("occupation_end <= ?", now).
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch elapsed flights: %w", err)
	}

	return flights, nil
}

// MarkCompleted atomically moves an ALLOCATED flight to COMPLETED and clears
// its stand reference
func (r *FlightRepository) MarkCompleted(ctx context.Context, flightID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Flight{}).
		Where("id = ? AND status = ?", flightID, constants.FlightAllocated).
		Updates(map[string]interface{}{
			"status":   constants.FlightCompleted,
			"stand_id": nil,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete flight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("flight %s is not allocated", flightID)
	}
	return nil
}

// ListActiveByDay returns PENDING and ALLOCATED flights whose occupation
// starts on the given calendar day, ordered by start time
func (r *FlightRepository) ListActiveByDay(ctx context.Context, day time.Time) ([]models.Flight, error) {
	var flights []models.Flight

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Stand").
		Where("status IN ?", []string{string(constants.FlightPending), string(constants.FlightAllocated)}).
		Where("occupation_start >= ? AND occupation_start < ?", dayStart, dayEnd).
		Order("occupation_start ASC").
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	return flights, nil
}

// List returns all flights ordered by occupation start
func (r *FlightRepository) List(ctx context.Context) ([]models.Flight, error) {
	var flights []models.Flight

	err := r.db.WithContext(ctx).
		Preload("Aircraft").
		Preload("Stand").
		Order("occupation_start ASC").
		Find(&flights).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	return flights, nil
}

// Create inserts a new flight. Status is forced to PENDING with no stand.
func (r *FlightRepository) Create(ctx context.Context, flight *models.Flight) error {
	flight.Status = string(constants.FlightPending)
	flight.StandID = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(flight).Error; err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// Update persists changes to an existing flight
func (r *FlightRepository) Update(ctx context.Context, flight *models.Flight) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(flight).Error; err != nil {
		return fmt.Errorf("failed to update flight: %w", err)
	}
	return nil
}

// Delete removes a flight. The stand it occupied frees up implicitly since
// the operational state is derived, never stored.
func (r *FlightRepository) Delete(ctx context.Context, flightID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Flight{}, "id = ?", flightID).Error; err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	return nil
}
