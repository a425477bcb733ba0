package routing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"p9e.in/civicgrid/models"
)

// DepartmentDirectory resolves department codes to active departments.
type DepartmentDirectory interface {
	// FindActiveByCode returns the active department for the code, or
	// (nil, nil) when no active department carries it.
	FindActiveByCode(ctx context.Context, code string) (*models.Department, error)
}

// Location is the coordinate pair attached to a report at intake.
type Location struct {
	Latitude  float64
	Longitude float64
}

// RouteDecision is the triple derived at intake: responsible department
// (nil when no active department matches, routing is fail-open), priority,
// and the estimated days to resolution.
type RouteDecision struct {
	DepartmentCode          string             `json:"departmentCode"`
	DepartmentID            *uuid.UUID         `json:"departmentId,omitempty"`
	Department              *models.Department `json:"department,omitempty"`
	Priority                models.Priority    `json:"priority"`
	EstimatedResolutionDays int                `json:"estimatedResolutionDays"`
}

// Engine derives routing decisions for incoming reports.
type Engine struct {
	departments DepartmentDirectory
}

// NewEngine creates a routing engine backed by the given directory.
func NewEngine(departments DepartmentDirectory) *Engine {
	return &Engine{departments: departments}
}

// Route produces a fully-populated RouteDecision for a new report. A
// category that fails models.Category.Valid is a contract violation by the
// caller and is rejected. A missing active department is not an error:
// the decision carries a nil DepartmentID and the report is created
// unrouted, because capturing every citizen report outweighs complete
// routing.
func (e *Engine) Route(ctx context.Context, category models.Category, description string, loc Location) (*RouteDecision, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("route: unknown category %q", category)
	}

	code := DepartmentCodeFor(category)

	dept, err := e.departments.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("route: department lookup for %s: %w", code, err)
	}

	priority := ClassifyPriority(description)

	decision := &RouteDecision{
		DepartmentCode:          code,
		Priority:                priority,
		EstimatedResolutionDays: EstimateResolutionDays(category, priority),
	}
	if dept != nil {
		decision.DepartmentID = &dept.ID
		decision.Department = dept
	}
	return decision, nil
}
