// Package stores provides the GORM-backed persistence collaborators the
// routing engine and status workflow depend on. The store client is
// constructed explicitly with an injected *gorm.DB handle; there is no
// package-level database global.
package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/pkg/workflow"
)

// ReportStore persists reports and their audit ledger.
type ReportStore struct {
	db *gorm.DB
}

// NewReportStore creates a report store over the given handle.
func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Create persists the report and its initial audit record in one
// transaction. Either both rows land or neither does.
func (s *ReportStore) Create(ctx context.Context, report *models.Report, initial *models.StatusUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		initial.ReportID = report.ID
		if err := tx.Create(initial).Error; err != nil {
			return fmt.Errorf("create initial status update: %w", err)
		}
		return nil
	})
}

// FindByID loads a report with its department and assignee.
func (s *ReportStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := s.db.WithContext(ctx).
		Preload("Department").
		Preload("AssignedTo").
		First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find report %s: %w", id, err)
	}
	return &report, nil
}

// ApplyTransition applies the patch iff the report's status still equals
// from, appending the audit record in the same transaction. The status
// guard in the UPDATE's WHERE clause is what makes two concurrent
// transitions on one report serialize: the loser affects zero rows and
// gets ErrConflict instead of silently dropping its audit entry.
func (s *ReportStore) ApplyTransition(ctx context.Context, id uuid.UUID, from models.Status, patch workflow.ReportPatch, audit *models.StatusUpdate) (*models.Report, error) {
	updates := map[string]interface{}{}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.AssignedToID != nil {
		updates["assigned_to_id"] = *patch.AssignedToID
	}
	if patch.ResolutionNotes != nil {
		updates["resolution_notes"] = *patch.ResolutionNotes
	}
	if patch.ActualResolutionDate != nil {
		updates["actual_resolution_date"] = *patch.ActualResolutionDate
	}
	if patch.ClearResolution {
		updates["actual_resolution_date"] = nil
	}

	if len(updates) > 0 || audit != nil {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Report{}).
				Where("id = ? AND status = ?", id, from).
				Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("update report %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
					return fmt.Errorf("check report %s: %w", id, err)
				}
				if count == 0 {
					return workflow.ErrNotFound
				}
				return workflow.ErrConflict
			}
			if audit != nil {
				audit.ReportID = id
				if err := tx.Create(audit).Error; err != nil {
					return fmt.Errorf("append status update: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return s.FindByID(ctx, id)
}

// FindByCategoryInBound returns reports of the category whose coordinates
// fall inside the bounding box, excluding the given statuses. Used by the
// proximity detector; read-only.
func (s *ReportStore) FindByCategoryInBound(ctx context.Context, category models.Category, bound orb.Bound, excludeStatuses []models.Status) ([]models.Report, error) {
	var reports []models.Report
	q := s.db.WithContext(ctx).
		Where("category = ?", category).
		Where("latitude BETWEEN ? AND ?", bound.Min[1], bound.Max[1]).
		Where("longitude BETWEEN ? AND ?", bound.Min[0], bound.Max[0])
	if len(excludeStatuses) > 0 {
		q = q.Where("status NOT IN ?", excludeStatuses)
	}
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("find reports in bound: %w", err)
	}
	return reports, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status       models.Status
	Category     models.Category
	Priority     models.Priority
	DepartmentID *uuid.UUID
	AssignedToID *uuid.UUID
	Limit        int
	Offset       int
}

// List returns reports newest first, filtered and paginated.
func (s *ReportStore) List(ctx context.Context, filter ListFilter) ([]models.Report, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Report{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.DepartmentID != nil {
		q = q.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var reports []models.Report
	err := q.Preload("Department").Preload("AssignedTo").
		Order("created_at DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}
