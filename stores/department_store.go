package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/pkg/workflow"
)

// DepartmentStore persists departments and serves as the routing engine's
// department directory.
type DepartmentStore struct {
	db *gorm.DB
}

// NewDepartmentStore creates a department store over the given handle.
func NewDepartmentStore(db *gorm.DB) *DepartmentStore {
	return &DepartmentStore{db: db}
}

// FindActiveByCode returns the active department carrying the code, or
// (nil, nil) when none does. Inactive departments are invisible to
// routing.
func (s *DepartmentStore) FindActiveByCode(ctx context.Context, code string) (*models.Department, error) {
	var dept models.Department
	err := s.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&dept).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find department %s: %w", code, err)
	}
	return &dept, nil
}

// FindByID loads a department by primary key.
func (s *DepartmentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var dept models.Department
	err := s.db.WithContext(ctx).First(&dept, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, workflow.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find department %s: %w", id, err)
	}
	return &dept, nil
}

// List returns all departments, active first, then by name.
func (s *DepartmentStore) List(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	if err := s.db.WithContext(ctx).Order("is_active DESC, name ASC").Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return depts, nil
}

// Create persists a new department.
func (s *DepartmentStore) Create(ctx context.Context, dept *models.Department) error {
	if err := s.db.WithContext(ctx).Create(dept).Error; err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Update persists changes to an existing department.
func (s *DepartmentStore) Update(ctx context.Context, dept *models.Department) error {
	if err := s.db.WithContext(ctx).Save(dept).Error; err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}
