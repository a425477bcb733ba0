// handlers/auth.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"p9e.in/civicgrid/middleware"
	"p9e.in/civicgrid/models"
	"p9e.in/civicgrid/pkg/workflow"
	"p9e.in/civicgrid/stores"
)

// AuthHandler serves staff registration and login.
type AuthHandler struct {
	users *stores.UserStore
}

// NewAuthHandler creates the auth handler over the user store.
func NewAuthHandler(users *stores.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerReq struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID string `json:"departmentId"`
}

type userPayload struct {
	ID           uuid.UUID   `json:"id"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	DepartmentID *uuid.UUID  `json:"departmentId,omitempty"`
}

func toUserPayload(u *models.User) userPayload {
	return userPayload{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
	}
}

// Register creates a staff account. New accounts default to STAFF; role
// escalation happens through the admin staff API.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		http.Error(w, "firstName, lastName, email and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		http.Error(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	u := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Role:      models.RoleStaff,
		IsActive:  true,
	}
	if req.DepartmentID != "" {
		deptID, err := uuid.Parse(req.DepartmentID)
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

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// Login verifies credentials and issues a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	u, err := h.users.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, workflow.ErrNotFound) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if !u.IsActive || !u.CheckPassword(req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := middleware.GenerateToken(u.ID.String(), string(u.Role), u.FullName(), u.Email)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}

	// last-login timestamp is best-effort
	now := time.Now()
	u.LastLoginAt = &now
	if err := h.users.Update(r.Context(), u); err != nil {
		log.Printf("⚠️  Failed to record last login for %s: %v", u.Email, err)
	}

	writeJSON(w, http.StatusOK, loginResp{Token: token, User: toUserPayload(u)})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "invalid token subject", http.StatusUnauthorized)
		return
	}
	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(u))
}
