// models/department.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department represents a municipal unit that reports are routed to.
// Exactly one active department may exist per code; routing only considers
// active departments.
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"size:10;uniqueIndex;not null" json:"code"` // short uppercase code, e.g. "PWD", "WAT"
	Email       string    `gorm:"size:100;not null" json:"email"`
	Phone       string    `gorm:"size:20" json:"phone,omitempty"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true;index" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
