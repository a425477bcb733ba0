// handlers/report_handlers.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"p9e.in/civicgrid/middleware"
	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/pkg/routing"
	"p9e.in/civicgrid/pkg/workflow"
	"p9e.in/civicgrid/stores"
	"p9e.in/civicgrid/utils"
)

// minDescriptionLen is the minimum free-text description length accepted
// at intake.
const minDescriptionLen = 10

// ReportHandler serves the citizen intake and staff triage endpoints.
type ReportHandler struct {
	engine   *routing.Engine
	detector *routing.ProximityDetector
	wf       *workflow.Workflow
	reports  *stores.ReportStore
	users    *stores.UserStore
}

// NewReportHandler wires the report endpoints to the core engines.
func NewReportHandler(engine *routing.Engine, detector *routing.ProximityDetector, wf *workflow.Workflow, reports *stores.ReportStore, users *stores.UserStore) *ReportHandler {
	return &ReportHandler{engine: engine, detector: detector, wf: wf, reports: reports, users: users}
}

type createReportReq struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Address      string   `json:"address"`
	Ward         string   `json:"ward"`
	ImageURLs    []string `json:"imageUrls"`
	CitizenName  string   `json:"citizenName"`
	CitizenEmail string   `json:"citizenEmail"`
	CitizenPhone string   `json:"citizenPhone"`
	// Metadata is stored verbatim as client context; routing ignores it.
	Metadata json.RawMessage `json:"metadata"`
}

func (req *createReportReq) validate() (models.Category, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", &workflow.ValidationError{Field: "title", Message: "is required"}
	}
	if len(strings.TrimSpace(req.Description)) < minDescriptionLen {
		return "", &workflow.ValidationError{Field: "description", Message: "must be at least 10 characters"}
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		return "", &workflow.ValidationError{Field: "category", Message: "unknown value " + strconv.Quote(req.Category)}
	}
	if err := utils.ValidateCoordinate(utils.Coordinate{Lat: req.Latitude, Lng: req.Longitude}); err != nil {
		return "", &workflow.ValidationError{Field: "location", Message: err.Error()}
	}
	return category, nil
}

type createReportResp struct {
	Success bool           `json:"success"`
	Report  *models.Report `json:"report"`
	// PossibleDuplicates surfaces nearby open reports of the same
	// category. Advisory only; it never blocks creation.
	PossibleDuplicates []models.Report `json:"possibleDuplicates,omitempty"`
}

// Create is the public citizen intake endpoint: validates the submission,
// routes it, and persists it via the workflow in SUBMITTED state.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	category, err := req.validate()
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	decision, err := h.engine.Route(r.Context(), category, req.Description, routing.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if decision.DepartmentID == nil {
		log.Printf("⚠️  No active department for code %s, creating report unrouted", decision.DepartmentCode)
	}

	report := &models.Report{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     category,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		Ward:         req.Ward,
		ImageURLs:    req.ImageURLs,
		CitizenName:  req.CitizenName,
		CitizenEmail: strings.ToLower(strings.TrimSpace(req.CitizenEmail)),
		CitizenPhone: req.CitizenPhone,
		Metadata:     datatypes.JSON(req.Metadata),

		Priority:                decision.Priority,
		DepartmentID:            decision.DepartmentID,
		EstimatedResolutionDays: decision.EstimatedResolutionDays,
	}

	created, err := h.wf.Submit(r.Context(), report)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	created.Department = decision.Department

	// duplicate hints are best-effort
	nearby, err := h.detector.FindNearby(r.Context(), category, req.Latitude, req.Longitude, 0)
	if err != nil {
		log.Printf("⚠️  Nearby lookup failed for report %s: %v", created.ID, err)
		nearby = nil
	}
	duplicates := make([]models.Report, 0, len(nearby))
	for _, rep := range nearby {
		if rep.ID != created.ID {
			duplicates = append(duplicates, rep)
		}
	}

	log.Printf("✅ Report %s created: category=%s priority=%s department=%s", created.ID, created.Category, created.Priority, decision.DepartmentCode)
	writeJSON(w, http.StatusCreated, createReportResp{
		Success:            true,
		Report:             created,
		PossibleDuplicates: duplicates,
	})
}

// List returns reports filtered by query parameters. ADMIN sees all;
// other roles are scoped to their own department.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRole(r)

	filter := stores.ListFilter{
		Status:   models.Status(r.URL.Query().Get("status")),
		Category: models.Category(r.URL.Query().Get("category")),
		Priority: models.Priority(r.URL.Query().Get("priority")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	if utils.CanViewAllReports(role) {
		if v := r.URL.Query().Get("departmentId"); v != "" {
			deptID, err := uuid.Parse(v)
			if err != nil {
				http.Error(w, "invalid departmentId", http.StatusBadRequest)
				return
			}
			filter.DepartmentID = &deptID
		}
	} else {
		// scope to the caller's department
		userID, err := uuid.Parse(middleware.GetUserID(r))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := h.users.FindByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if user.DepartmentID == nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"reports": []models.Report{}, "total": 0})
			return
		}
		filter.DepartmentID = user.DepartmentID
	}

	reports, total, err := h.reports.List(r.Context(), filter)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports, "total": total})
}

// Get returns one report with its full status history, newest first.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid report ID", http.StatusBadRequest)
		return
	}

	report, err := h.reports.FindByID(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	history, err := h.wf.History(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report":        report,
		"statusHistory": history,
	})
}

type updateReportReq struct {
	Status          *string `json:"status"`
	Comment         string  `json:"comment"`
	AssignedToID    *string `json:"assignedToId"`
	Priority        *string `json:"priority"`
	ResolutionNotes *string `json:"resolutionNotes"`
	CitizenFeedback bool    `json:"citizenFeedback"`
	ClearResolution bool    `json:"clearResolution"`
}

// Update applies a workflow transition and/or assignment changes.
// Status changes need CanUpdateStatus (enforced by route middleware);
// assignment and priority escalation additionally need CanAssignReports.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid report ID", http.StatusBadRequest)
		return
	}

	var req updateReportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	role := middleware.GetRole(r)
	if (req.AssignedToID != nil || req.Priority != nil) && !utils.CanAssignReports(role) {
		http.Error(w, "insufficient permissions for assignment", http.StatusForbidden)
		return
	}

	actorID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	treq := workflow.TransitionRequest{
		Comment:         req.Comment,
		ActorID:         &actorID,
		CitizenFeedback: req.CitizenFeedback,
		ResolutionNotes: req.ResolutionNotes,
		ClearResolution: req.ClearResolution,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		treq.NewStatus = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		treq.Priority = &priority
	}
	if req.AssignedToID != nil {
		assignee, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			http.Error(w, "invalid assignedToId", http.StatusBadRequest)
			return
		}
		treq.AssignedToID = &assignee
	}

	updated, err := h.wf.ApplyTransition(r.Context(), id, treq)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "report": updated})
}

// Nearby is the advisory duplicate probe used by the intake form before
// submission.
func (h *ReportHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	category := models.Category(q.Get("category"))
	lat, latErr := strconv.ParseFloat(q.Get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("longitude"), 64)
	if latErr != nil || lonErr != nil {
		http.Error(w, "latitude and longitude are required", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateCoordinate(utils.Coordinate{Lat: lat, Lng: lon}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	radius := 0.0
	if v := q.Get("radius"); v != "" {
		radius, _ = strconv.ParseFloat(v, 64)
	}

	reports, err := h.detector.FindNearby(r.Context(), category, lat, lon, radius)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}
