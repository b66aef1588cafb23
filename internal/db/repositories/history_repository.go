package repositories

import (
	"context"
	"fmt"

	models "smartpark-alliance/smartpark/internal/models/gorm"

	"gorm.io/gorm"
)

// HistoryRepository handles the allocation_history archive table. The
// archive is write-only from the allocation engine's perspective; List
// exists for the reporting surface.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Insert writes one archival snapshot
func (r *HistoryRepository) Insert(ctx context.Context, record *models.AllocationHistory) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// List returns archived allocations, most recent first
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]models.AllocationHistory, error) {
	var records []models.AllocationHistory

	q := r.db.WithContext(ctx).Order("archived_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}

	return records, nil
}
