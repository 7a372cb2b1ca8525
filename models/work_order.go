package models

import (
	"time"

	"gorm.io/gorm"
)

// Priority bounds; 1 is the most urgent
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// WorkOrder tracks one order through the physical processing pipeline
type WorkOrder struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	WorkOrderNumber string          `gorm:"uniqueIndex;not null;<-:create" json:"work_order_number"`
	OrderID         string          `gorm:"not null;index" json:"order_id"`
	JobQueueID      *string         `gorm:"index" json:"job_queue_id"` // cleared when the slot is removed
	Status          WorkOrderStatus `gorm:"not null;default:'pending'" json:"status"`
	AssignedTo      *string         `json:"assigned_to,omitempty"`
	Priority        int             `gorm:"not null;default:3" json:"priority"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
	Instructions    *string         `json:"instructions,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CurrentStep     StepType        `gorm:"not null;default:'sorting'" json:"current_step"`
	Steps           []WorkOrderStep `gorm:"foreignKey:WorkOrderID" json:"steps,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}

// BeforeCreate assigns an id when none is set
func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = newID()
	}
	return nil
}

// WorkOrderStep is one ordered processing stage of a work order
type WorkOrderStep struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	WorkOrderID     string     `gorm:"not null;uniqueIndex:uq_work_order_steps_sequence" json:"work_order_id"`
	StepType        StepType   `gorm:"not null" json:"step_type"`
	Sequence        int        `gorm:"not null;uniqueIndex:uq_work_order_steps_sequence" json:"sequence"`
	Status          StepStatus `gorm:"not null;default:'pending'" json:"status"`
	AssignedTo      *string    `json:"assigned_to,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	PhotoS3Key      *string    `gorm:"column:photo_s3_key" json:"photo_s3_key,omitempty"`
	PhotoURL        *string    `gorm:"-" json:"photo_url,omitempty"` // computed field, presigned URL for the photo
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the WorkOrderStep model
func (WorkOrderStep) TableName() string {
	return "work_order_steps"
}

// BeforeCreate assigns an id when none is set
func (s *WorkOrderStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}
