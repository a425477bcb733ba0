// handlers/user_handlers.go
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

// UserHandler serves admin staff management.
type UserHandler struct {
	users *stores.UserStore
}

// NewUserHandler creates the staff management handler.
func NewUserHandler(users *stores.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all staff accounts.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	payload := make([]userPayload, 0, len(users))
	for i := range users {
		payload = append(payload, toUserPayload(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": payload})
}

type staffReq struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"departmentId"`
	IsActive     *bool   `json:"isActive"`
}

// Create adds a staff account with an explicit role.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		http.Error(w, "firstName, lastName, email and password are required", http.StatusBadRequest)
		return
	}
	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleStaff
	}
	if !role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	u := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Role:      role,
		IsActive:  true,
	}
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		deptID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			http.Error(w, "invalid departmentId", http.StatusBadRequest)
			return
		}
		u.DepartmentID = &deptID
	}
	if err := u.SetPassword(req.Password); err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	if err := h.users.Create(r.Context(), &u); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "email already registered", http.StatusConflict)
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toUserPayload(&u))
}

// Update changes role, department, active flag, or password of a staff
// account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	var req staffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			http.Error(w, "unknown role", http.StatusBadRequest)
			return
		}
		u.Role = role
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			u.DepartmentID = nil
		} else {
			deptID, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				http.Error(w, "invalid departmentId", http.StatusBadRequest)
				return
			}
			u.DepartmentID = &deptID
		}
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if err := u.SetPassword(req.Password); err != nil {
			http.Error(w, "error hashing password", http.StatusInternalServerError)
			return
		}
	}

	if err := h.users.Update(r.Context(), u); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(u))
}
