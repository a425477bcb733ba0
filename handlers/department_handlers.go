// handlers/department_handlers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/stores"
)

// DepartmentHandler serves admin department management.
type DepartmentHandler struct {
	departments *stores.DepartmentStore
}

// NewDepartmentHandler creates the department handler.
func NewDepartmentHandler(departments *stores.DepartmentStore) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

// List returns all departments.
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.departments.List(r.Context())
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"departments": depts})
}

type departmentReq struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// Create adds a department. Code and name are unique; the code vocabulary
// must line up with routing.DepartmentCodeFor for routing to reach it.
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req departmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Code == "" || req.Email == "" {
		http.Error(w, "name, code and email are required", http.StatusBadRequest)
		return
	}

	dept := models.Department{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := h.departments.Create(r.Context(), &dept); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "department name or code already exists", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, dept)
}

// Update modifies a department, including the active flag that controls
// whether routing can see it.
func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid department ID", http.StatusBadRequest)
		return
	}

	dept, err := h.departments.FindByID(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	var req departmentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name != "" {
		dept.Name = strings.TrimSpace(req.Name)
	}
	if req.Code != "" {
		dept.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.Email != "" {
		dept.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != "" {
		dept.Phone = req.Phone
	}
	if req.Description != "" {
		dept.Description = req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := h.departments.Update(r.Context(), dept); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "department name or code already exists", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, dept)
}
