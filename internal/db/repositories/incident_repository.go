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

// IncidentRepository handles incident table operations
type IncidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository creates a new incident repository
func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

// GetByID retrieves an incident with its stand, nil when not found
func (r *IncidentRepository) GetByID(ctx context.Context, incidentID string) (*models.Incident, error) {
	var incident models.Incident

	err := r.db.WithContext(ctx).
		Preload("Stand").
		Where("id = ?", incidentID).
		First(&incident).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch incident: %w", err)
	}

	return &incident, nil
}

// Create inserts a new incident. Status is forced to OPEN on declaration.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	incident.Status = string(constants.IncidentOpen)
	incident.ResolvedAt = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(incident).Error; err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// ActiveForStand returns the stand's incidents in OPEN or IN_PROGRESS,
// newest declaration first
func (r *IncidentRepository) ActiveForStand(ctx context.Context, standID string) ([]models.Incident, error) {
	var incidents []models.Incident

	err := r.db.WithContext(ctx).
		Where("stand_id = ?", standID).
		Where("status IN ?", constants.ActiveIncidentStatuses).
		Order("declared_at DESC").
		Find(&incidents).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch active incidents: %w", err)
	}

	return incidents, nil
}

// HasActiveForStand reports whether the stand carries at least one incident
// in OPEN or IN_PROGRESS
func (r *IncidentRepository) HasActiveForStand(ctx context.Context, standID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("stand_id = ?", standID).
		Where("status IN ?", constants.ActiveIncidentStatuses).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to count active incidents: %w", err)
	}

	return count > 0, nil
}

// HasOtherActiveForStand reports whether the stand carries an active incident
// other than the one being resolved
func (r *IncidentRepository) HasOtherActiveForStand(ctx context.Context, standID, excludeID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("stand_id = ?", standID).
		Where("id <> ?", excludeID).
		Where("status IN ?", constants.ActiveIncidentStatuses).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to count active incidents: %w", err)
	}

	return count > 0, nil
}

// UpdateStatus transitions an incident. The resolution timestamp follows the
// status: set when entering RESOLVED (if not already set), cleared when the
// incident is reopened.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, incident *models.Incident, newStatus constants.IncidentStatus, now time.Time) error {
	updates := map[string]interface{}{"status": string(newStatus)}

	if newStatus == constants.IncidentResolved {
		if incident.ResolvedAt == nil {
			updates["resolved_at"] = now
		}
	} else {
		updates["resolved_at"] = nil
	}

	err := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("id = ?", incident.ID).
		Updates(updates).Error

	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	incident.Status = string(newStatus)
	if ts, ok := updates["resolved_at"].(time.Time); ok {
		incident.ResolvedAt = &ts
	} else if _, present := updates["resolved_at"]; present {
		incident.ResolvedAt = nil
	}
	return nil
}

// List returns all incidents with their stands, newest declaration first
func (r *IncidentRepository) List(ctx context.Context) ([]models.Incident, error) {
	var incidents []models.Incident

	err := r.db.WithContext(ctx).
		Preload("Stand").
		Order("declared_at DESC").
		Find(&incidents).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	return incidents, nil
}
