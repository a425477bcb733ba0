package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p9e.in/civicgrid/models"
)

// fakeStore is an in-memory ReportStore/AuditStore honoring the same
// atomicity contract as the real one: the status guard is checked before
// anything is written.
type fakeStore struct {
	reports map[uuid.UUID]*models.Report
	audits  []models.StatusUpdate

	// forceConflict makes the next ApplyTransition fail its status guard
	forceConflict bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{reports: make(map[uuid.UUID]*models.Report)}
}

func (f *fakeStore) Create(_ context.Context, report *models.Report, initial *models.StatusUpdate) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()
	clone := *report
	f.reports[report.ID] = &clone

	initial.ReportID = report.ID
	initial.CreatedAt = time.Now()
	f.audits = append(f.audits, *initial)
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *report
	return &clone, nil
}

func (f *fakeStore) ApplyTransition(_ context.Context, id uuid.UUID, from models.Status, patch ReportPatch, audit *models.StatusUpdate) (*models.Report, error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, ErrNotFound
	}
	if f.forceConflict || report.Status != from {
		return nil, ErrConflict
	}

	if patch.Status != nil {
		report.Status = *patch.Status
	}
	if patch.Priority != nil {
		report.Priority = *patch.Priority
	}
	if patch.AssignedToID != nil {
		report.AssignedToID = patch.AssignedToID
	}
	if patch.ResolutionNotes != nil {
		report.ResolutionNotes = *patch.ResolutionNotes
	}
	if patch.ActualResolutionDate != nil {
		report.ActualResolutionDate = patch.ActualResolutionDate
	}
	if patch.ClearResolution {
		report.ActualResolutionDate = nil
	}

	if audit != nil {
		audit.ReportID = id
		audit.CreatedAt = time.Now()
		f.audits = append(f.audits, *audit)
	}

	clone := *report
	return &clone, nil
}

func (f *fakeStore) ListByReport(_ context.Context, reportID uuid.UUID) ([]models.StatusUpdate, error) {
	var out []models.StatusUpdate
	for i := len(f.audits) - 1; i >= 0; i-- {
		if f.audits[i].ReportID == reportID {
			out = append(out, f.audits[i])
		}
	}
	return out, nil
}

func submitReport(t *testing.T, wf *Workflow, store *fakeStore) *models.Report {
	t.Helper()
	report := &models.Report{
		Title:                   "Pothole on 5th Ave",
		Description:             "large pothole near the crosswalk",
		Category:                models.CategoryPothole,
		Priority:                models.PriorityMedium,
		Latitude:                40.71,
		Longitude:               -74.0,
		EstimatedResolutionDays: 7,
	}
	created, err := wf.Submit(context.Background(), report)
	require.NoError(t, err)
	return created
}

func TestSubmit_ForcesSubmittedAndSystemAudit(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)

	report := &models.Report{
		Title:       "Leaking hydrant",
		Description: "water everywhere",
		Category:    models.CategoryWaterLeak,
		Priority:    models.PriorityUrgent,
		Status:      models.StatusResolved, // caller must not choose the state
	}
	created, err := wf.Submit(context.Background(), report)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Nil(t, created.ActualResolutionDate)

	require.Len(t, store.audits, 1)
	audit := store.audits[0]
	assert.Equal(t, created.ID, audit.ReportID)
	assert.Equal(t, models.StatusSubmitted, audit.OldStatus)
	assert.Equal(t, models.StatusSubmitted, audit.NewStatus)
	assert.Equal(t, models.UpdateTypeSystem, audit.UpdateType)
	assert.Equal(t, SubmissionComment, audit.Comment)
	assert.Nil(t, audit.UpdatedByID)
}

func TestSubmit_SetsEstimatedResolutionDate(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)

	created := submitReport(t, wf, store)
	require.NotNil(t, created.EstimatedResolutionDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *created.EstimatedResolutionDate, time.Minute)
}

func TestSubmit_Validation(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)

	_, err := wf.Submit(context.Background(), &models.Report{Description: "no title", Category: models.CategoryTrash})
	assert.True(t, IsValidation(err), "missing title should be a validation error")

	_, err = wf.Submit(context.Background(), &models.Report{Title: "x", Category: models.Category("NOPE")})
	assert.True(t, IsValidation(err), "unknown category should be a validation error")

	assert.Empty(t, store.audits, "failed submission must not persist anything")
}

func TestApplyTransition_ResolvedSetsActualDate(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	// move to ASSIGNED first
	assigned := models.StatusAssigned
	actor := uuid.New()
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus: &assigned,
		ActorID:   &actor,
	})
	require.NoError(t, err)

	before := time.Now()
	resolved := models.StatusResolved
	updated, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus: &resolved,
		ActorID:   &actor,
		Comment:   "patched and sealed",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.ActualResolutionDate)
	assert.False(t, updated.ActualResolutionDate.Before(before.Truncate(time.Second)))

	history, err := wf.History(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 3) // submission + 2 transitions

	latest := history[0]
	assert.Equal(t, models.StatusAssigned, latest.OldStatus)
	assert.Equal(t, models.StatusResolved, latest.NewStatus)
	assert.Equal(t, models.UpdateTypeManual, latest.UpdateType)
	assert.Equal(t, "patched and sealed", latest.Comment)
	require.NotNil(t, latest.UpdatedByID)
	assert.Equal(t, actor, *latest.UpdatedByID)
}

func TestApplyTransition_ChangelessRequestIsAuditNoop(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	// same status, no metadata: nothing changed, nothing to record
	submitted := models.StatusSubmitted
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus: &submitted,
		Comment:   "just looking",
	})
	require.NoError(t, err)

	require.Len(t, store.audits, 1)
	assert.Equal(t, models.UpdateTypeSystem, store.audits[0].UpdateType)
}

func TestApplyTransition_PriorityEscalationLeavesAudit(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	actor := uuid.New()
	emergency := models.PriorityEmergency
	updated, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		Priority: &emergency,
		Comment:  "gas smell reported on site",
		ActorID:  &actor,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityEmergency, updated.Priority)

	// escalation without a status move still appends a ledger entry
	require.Len(t, store.audits, 2)
	audit := store.audits[1]
	assert.Equal(t, models.StatusSubmitted, audit.OldStatus)
	assert.Equal(t, models.StatusSubmitted, audit.NewStatus)
	assert.Equal(t, models.UpdateTypeManual, audit.UpdateType)
	assert.Equal(t, "gas smell reported on site", audit.Comment)
	require.NotNil(t, audit.UpdatedByID)
	assert.Equal(t, actor, *audit.UpdatedByID)
}

func TestApplyTransition_SameStatusMetadataStillAudited(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	submitted := models.StatusSubmitted
	notes := "looked at it"
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus:       &submitted,
		ResolutionNotes: &notes,
	})
	require.NoError(t, err)

	// the metadata patch applied and left a non-move entry
	assert.Equal(t, notes, store.reports[created.ID].ResolutionNotes)
	require.Len(t, store.audits, 2)
	assert.Equal(t, store.audits[1].OldStatus, store.audits[1].NewStatus)
}

func TestApplyTransition_NonResolvedLeavesActualDate(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	resolved := models.StatusResolved
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{NewStatus: &resolved})
	require.NoError(t, err)

	// permissive graph: RESOLVED -> IN_PROGRESS is allowed, and it does
	// not clear the resolution date unless explicitly asked
	inProgress := models.StatusInProgress
	updated, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{NewStatus: &inProgress})
	require.NoError(t, err)
	assert.NotNil(t, updated.ActualResolutionDate)
}

func TestApplyTransition_ExplicitReopenClearsDate(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	resolved := models.StatusResolved
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{NewStatus: &resolved})
	require.NoError(t, err)

	submitted := models.StatusSubmitted
	updated, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus:       &submitted,
		ClearResolution: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ActualResolutionDate)
}

func TestApplyTransition_CitizenFeedbackType(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	closed := models.StatusClosed
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{
		NewStatus:       &closed,
		Comment:         "issue no longer present",
		CitizenFeedback: true,
	})
	require.NoError(t, err)

	require.Len(t, store.audits, 2)
	assert.Equal(t, models.UpdateTypeCitizenFeedback, store.audits[1].UpdateType)
}

func TestApplyTransition_Errors(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)
	created := submitReport(t, wf, store)

	bad := models.Status("LOST")
	_, err := wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{NewStatus: &bad})
	assert.True(t, IsValidation(err))

	badPriority := models.Priority("MAXIMAL")
	_, err = wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{Priority: &badPriority})
	assert.True(t, IsValidation(err))

	ack := models.StatusAcknowledged
	_, err = wf.ApplyTransition(context.Background(), uuid.New(), TransitionRequest{NewStatus: &ack})
	assert.ErrorIs(t, err, ErrNotFound)

	store.forceConflict = true
	_, err = wf.ApplyTransition(context.Background(), created.ID, TransitionRequest{NewStatus: &ack})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, store.audits, 1, "failed transition must not append an audit record")
}

func TestSubmit_RoundTripPreservesRoutingFields(t *testing.T) {
	store := newFakeStore()
	wf := New(store, store)

	deptID := uuid.New()
	report := &models.Report{
		Title:                   "Flickering streetlight",
		Description:             "broken lamp at the corner",
		Category:                models.CategoryStreetlight,
		Priority:                models.PriorityHigh,
		DepartmentID:            &deptID,
		EstimatedResolutionDays: 2,
		Latitude:                40.7,
		Longitude:               -74.0,
	}
	created, err := wf.Submit(context.Background(), report)
	require.NoError(t, err)

	fetched, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryStreetlight, fetched.Category)
	assert.Equal(t, models.PriorityHigh, fetched.Priority)
	require.NotNil(t, fetched.DepartmentID)
	assert.Equal(t, deptID, *fetched.DepartmentID)
}
