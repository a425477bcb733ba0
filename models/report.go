// models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Category is the closed set of civic issue types accepted at intake.
type Category string

const (
	CategoryPothole           Category = "POTHOLE"
	CategoryStreetlight       Category = "STREETLIGHT"
	CategoryTrash             Category = "TRASH"
	CategoryGraffiti          Category = "GRAFFITI"
	CategoryTrafficSignal     Category = "TRAFFIC_SIGNAL"
	CategoryWaterLeak         Category = "WATER_LEAK"
	CategoryNoiseComplaint    Category = "NOISE_COMPLAINT"
	CategoryParkMaintenance   Category = "PARK_MAINTENANCE"
	CategoryRoadDamage        Category = "ROAD_DAMAGE"
	CategoryDrainage          Category = "DRAINAGE"
	CategoryIllegalParking    Category = "ILLEGAL_PARKING"
	CategoryTreeFalling       Category = "TREE_FALLING"
	CategoryAnimalControl     Category = "ANIMAL_CONTROL"
	CategoryBuildingViolation Category = "BUILDING_VIOLATION"
	CategoryOther             Category = "OTHER"
)

// AllCategories lists every Category value. Kept next to the enum so the
// list and the constants move together.
var AllCategories = []Category{
	CategoryPothole, CategoryStreetlight, CategoryTrash, CategoryGraffiti,
	CategoryTrafficSignal, CategoryWaterLeak, CategoryNoiseComplaint,
	CategoryParkMaintenance, CategoryRoadDamage, CategoryDrainage,
	CategoryIllegalParking, CategoryTreeFalling, CategoryAnimalControl,
	CategoryBuildingViolation, CategoryOther,
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is the urgency tier assigned at intake. EMERGENCY is never
// produced by classification; it is reserved for manual escalation.
type Priority string

const (
	PriorityLow       Priority = "LOW"
	PriorityMedium    Priority = "MEDIUM"
	PriorityHigh      Priority = "HIGH"
	PriorityUrgent    Priority = "URGENT"
	PriorityEmergency Priority = "EMERGENCY"
)

// Valid reports whether p is a recognized priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityEmergency:
		return true
	}
	return false
}

// Status is the lifecycle state of a report.
type Status string

const (
	StatusSubmitted     Status = "SUBMITTED"
	StatusAcknowledged  Status = "ACKNOWLEDGED"
	StatusAssigned      Status = "ASSIGNED"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusResolved      Status = "RESOLVED"
	StatusClosed        Status = "CLOSED"
	StatusRejected      Status = "REJECTED"
	StatusDuplicate     Status = "DUPLICATE"
)

// Valid reports whether s is a recognized status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusAssigned, StatusInProgress,
		StatusPendingReview, StatusResolved, StatusClosed, StatusRejected, StatusDuplicate:
		return true
	}
	return false
}

// Report is a citizen-submitted civic issue. Category is immutable after
// creation; priority and department are set once by the routing engine and
// only change through an audited workflow transition. Reports are never
// hard-deleted: terminal states are retained for audit.
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    Category  `gorm:"size:30;not null;index" json:"category"`
	Priority    Priority  `gorm:"size:15;not null;default:MEDIUM;index" json:"priority"`
	Status      Status    `gorm:"size:20;not null;default:SUBMITTED;index" json:"status"`

	// Location
	Latitude  float64 `gorm:"not null;index:idx_reports_coords" json:"latitude"`
	Longitude float64 `gorm:"not null;index:idx_reports_coords" json:"longitude"`
	Address   string  `gorm:"size:255" json:"address,omitempty"`
	Ward      string  `gorm:"size:100" json:"ward,omitempty"`

	// Media
	ImageURLs pq.StringArray `gorm:"type:text[]" json:"imageUrls"`

	// Metadata holds free-form key/value context from the submitting
	// client (app version, device, source channel). Opaque to routing.
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Citizen contact, all optional (anonymous reporting is allowed)
	CitizenName  string `gorm:"size:100" json:"citizenName,omitempty"`
	CitizenEmail string `gorm:"size:100" json:"citizenEmail,omitempty"`
	CitizenPhone string `gorm:"size:20" json:"citizenPhone,omitempty"`

	// Assignment
	DepartmentID *uuid.UUID  `gorm:"type:uuid;index" json:"departmentId,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	AssignedToID *uuid.UUID  `gorm:"type:uuid;index" json:"assignedToId,omitempty"`
	AssignedTo   *User       `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`

	// Resolution
	ResolutionNotes         string     `gorm:"type:text" json:"resolutionNotes,omitempty"`
	EstimatedResolutionDays int        `gorm:"not null;default:0" json:"estimatedResolutionDays"`
	EstimatedResolutionDate *time.Time `json:"estimatedResolutionDate,omitempty"`
	ActualResolutionDate    *time.Time `json:"actualResolutionDate,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
