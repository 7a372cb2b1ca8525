package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyJobQueue assigns an order to a processing day and a position in that day's queue
type DailyJobQueue struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	OrderID              string     `gorm:"not null;uniqueIndex:uq_daily_job_queues_order_date" json:"order_id"`
	Order                *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	ScheduledDate        time.Time  `gorm:"type:date;not null;uniqueIndex:uq_daily_job_queues_order_date" json:"scheduled_date"`
	QueuePosition        int        `gorm:"not null" json:"queue_position"`
	EstimatedCompletion  *time.Time `json:"estimated_completion_time,omitempty"`
	ActualCompletionTime *time.Time `json:"actual_completion_time,omitempty"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the DailyJobQueue model
func (DailyJobQueue) TableName() string {
	return "daily_job_queues"
}

// BeforeCreate assigns an id when none is set
func (q *DailyJobQueue) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = newID()
	}
	return nil
}

// CalendarDay truncates t to midnight UTC of its calendar date
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
