// Package workflow governs the lifecycle of a report: it forces the
// initial SUBMITTED state at creation, validates and applies status
// transitions, and appends one audit record per real change. The state
// graph is deliberately permissive: any recognized status may follow any
// other, terminal states included.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"p9e.in/civicgrid/models"
)

// SubmissionComment is the comment recorded on the initial SYSTEM audit
// entry that marks submission.
const SubmissionComment = "Report submitted by citizen"

// ReportPatch is the set of fields a transition may change. Nil pointers
// leave the field untouched.
type ReportPatch struct {
	Status               *models.Status
	Priority             *models.Priority
	AssignedToID         *uuid.UUID
	ResolutionNotes      *string
	ActualResolutionDate *time.Time
	// ClearResolution explicitly clears ActualResolutionDate on re-open.
	// Leaving a terminal state never clears it implicitly.
	ClearResolution bool
}

// ReportStore is the persistence collaborator for reports. Implementations
// must make Create and ApplyTransition all-or-nothing: Create persists the
// report and its initial audit record together, and ApplyTransition must
// guarantee that the status check, the field update, and the audit append
// happen atomically per report so concurrent transitions cannot silently
// drop an audit entry.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report, initial *models.StatusUpdate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	// ApplyTransition applies the patch to the report iff its status still
	// equals from, appending audit (when non-nil) in the same unit of
	// work. It returns ErrNotFound when the report does not exist and
	// ErrConflict when the status guard fails.
	ApplyTransition(ctx context.Context, id uuid.UUID, from models.Status, patch ReportPatch, audit *models.StatusUpdate) (*models.Report, error)
}

// AuditStore reads the append-only status ledger. Appends happen inside
// the report store's atomic operations.
type AuditStore interface {
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]models.StatusUpdate, error)
}

// TransitionRequest describes one requested change to an existing report.
type TransitionRequest struct {
	NewStatus       *models.Status
	Comment         string
	ActorID         *uuid.UUID // nil for system-originated changes
	CitizenFeedback bool       // marks the audit record CITIZEN_FEEDBACK instead of MANUAL
	AssignedToID    *uuid.UUID
	Priority        *models.Priority // manual escalation, may set EMERGENCY
	ResolutionNotes *string
	ClearResolution bool // explicit re-open: clear ActualResolutionDate
}

// Workflow validates and applies report lifecycle changes.
type Workflow struct {
	reports ReportStore
	audits  AuditStore
	now     func() time.Time
}

// New creates a workflow over the given stores.
func New(reports ReportStore, audits AuditStore) *Workflow {
	return &Workflow{reports: reports, audits: audits, now: time.Now}
}

// Submit persists a new report in SUBMITTED state together with its
// single SYSTEM audit record (old == new == SUBMITTED). The caller
// populates content, location, and the routing decision fields; status
// and creation timestamps are forced here and never chosen by callers.
func (w *Workflow) Submit(ctx context.Context, report *models.Report) (*models.Report, error) {
	if report.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "is required"}
	}
	if !report.Category.Valid() {
		return nil, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown value %q", report.Category)}
	}
	if report.Priority == "" {
		report.Priority = models.PriorityMedium
	}

	report.Status = models.StatusSubmitted
	report.ActualResolutionDate = nil
	if report.EstimatedResolutionDays > 0 {
		due := w.now().AddDate(0, 0, report.EstimatedResolutionDays)
		report.EstimatedResolutionDate = &due
	}

	initial := &models.StatusUpdate{
		OldStatus:  models.StatusSubmitted,
		NewStatus:  models.StatusSubmitted,
		Comment:    SubmissionComment,
		UpdateType: models.UpdateTypeSystem,
	}

	if err := w.reports.Create(ctx, report, initial); err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}
	return report, nil
}

// ApplyTransition validates the request against the report's current state
// and applies it. Every applied change leaves a trail: a status change
// appends one StatusUpdate with the old and new states, and a
// metadata-only change (priority escalation, assignment, resolution
// notes, explicit reopen) appends one with OldStatus == NewStatus. Only a
// request that changes nothing skips the ledger. Entering RESOLVED sets
// ActualResolutionDate as a side effect; no other target status touches
// it.
func (w *Workflow) ApplyTransition(ctx context.Context, reportID uuid.UUID, req TransitionRequest) (*models.Report, error) {
	if req.NewStatus != nil && !req.NewStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown value %q", *req.NewStatus)}
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown value %q", *req.Priority)}
	}

	report, err := w.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	patch := ReportPatch{
		Priority:        req.Priority,
		AssignedToID:    req.AssignedToID,
		ResolutionNotes: req.ResolutionNotes,
		ClearResolution: req.ClearResolution,
	}

	updateType := models.UpdateTypeManual
	if req.CitizenFeedback {
		updateType = models.UpdateTypeCitizenFeedback
	}

	var audit *models.StatusUpdate
	if req.NewStatus != nil && *req.NewStatus != report.Status {
		patch.Status = req.NewStatus
		if *req.NewStatus == models.StatusResolved {
			resolvedAt := w.now()
			patch.ActualResolutionDate = &resolvedAt
		}
		audit = &models.StatusUpdate{
			ReportID:    report.ID,
			OldStatus:   report.Status,
			NewStatus:   *req.NewStatus,
			Comment:     req.Comment,
			UpdatedByID: req.ActorID,
			UpdateType:  updateType,
		}
	} else if req.Priority != nil || req.AssignedToID != nil || req.ResolutionNotes != nil || req.ClearResolution {
		// metadata changed with the status staying put; the ledger still
		// records who did it (old == new marks a non-move entry)
		audit = &models.StatusUpdate{
			ReportID:    report.ID,
			OldStatus:   report.Status,
			NewStatus:   report.Status,
			Comment:     req.Comment,
			UpdatedByID: req.ActorID,
			UpdateType:  updateType,
		}
	}

	updated, err := w.reports.ApplyTransition(ctx, report.ID, report.Status, patch, audit)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// History returns the full audit chain for a report, newest first.
func (w *Workflow) History(ctx context.Context, reportID uuid.UUID) ([]models.StatusUpdate, error) {
	return w.audits.ListByReport(ctx, reportID)
}
