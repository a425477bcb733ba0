// models/status_update.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateType tags who or what originated a status update.
type UpdateType string

const (
	UpdateTypeSystem          UpdateType = "SYSTEM"
	UpdateTypeManual          UpdateType = "MANUAL"
	UpdateTypeCitizenFeedback UpdateType = "CITIZEN_FEEDBACK"
)

// StatusUpdate is one immutable entry in a report's audit ledger. Exactly
// one SYSTEM record with OldStatus == NewStatus == SUBMITTED marks the
// submission itself; every later status change appends exactly one record.
// Rows are never updated or deleted.
type StatusUpdate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"reportId"`
	OldStatus   Status     `gorm:"size:20;not null" json:"oldStatus"`
	NewStatus   Status     `gorm:"size:20;not null" json:"newStatus"`
	Comment     string     `gorm:"type:text" json:"comment,omitempty"`
	UpdatedByID *uuid.UUID `gorm:"type:uuid" json:"updatedById,omitempty"` // nil for system-generated
	UpdatedBy   *User      `gorm:"foreignKey:UpdatedByID" json:"updatedBy,omitempty"`
	UpdateType  UpdateType `gorm:"size:20;not null;default:MANUAL" json:"updateType"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
}

func (su *StatusUpdate) BeforeCreate(tx *gorm.DB) (err error) {
	if su.ID == uuid.Nil {
		su.ID = uuid.New()
	}
	return
}
