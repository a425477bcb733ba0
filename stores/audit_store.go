package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
)

// AuditStore reads the append-only status ledger. Writes go through the
// report store's transactional operations so an audit row can never exist
// without its matching report change.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates an audit store over the given handle.
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// ListByReport returns a report's full status history, newest first.
func (s *AuditStore) ListByReport(ctx context.Context, reportID uuid.UUID) ([]models.StatusUpdate, error) {
	var updates []models.StatusUpdate
	err := s.db.WithContext(ctx).
		Preload("UpdatedBy").
		Where("report_id = ?", reportID).
		Order("created_at DESC").
		Find(&updates).Error
	if err != nil {
		return nil, fmt.Errorf("list status updates for %s: %w", reportID, err)
	}
	return updates, nil
}
