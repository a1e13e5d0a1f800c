package models

import (
	"time"
)

// Activity status values
const (
	ActivityStatusActive    = "active"
	ActivityStatusCompleted = "completed"
)

// GrowingActivity tracks one crop from sowing to harvest
type GrowingActivity struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	CropName     string     `json:"crop_name" db:"crop_name"`
	AreaAcres    float64    `json:"area_acres" db:"area_acres"`
	SowingDate   time.Time  `json:"sowing_date" db:"sowing_date"`
	Status       string     `json:"status" db:"status"`
	CurrentStage string     `json:"current_stage,omitempty" db:"current_stage"`
	Notes        string     `json:"notes,omitempty" db:"notes"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ActivityTask is a scheduled cultivation task within an activity
type ActivityTask struct {
	ID          string     `json:"id" db:"id"`
	ActivityID  string     `json:"activity_id" db:"activity_id"`
	Week        int        `json:"week" db:"week"`
	Description string     `json:"description" db:"description"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Completed reports whether the task has been marked done.
func (t *ActivityTask) Completed() bool {
	return t.CompletedAt != nil
}

// Expense is a cost record attached to a growing activity
type Expense struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	ActivityID string    `json:"activity_id,omitempty" db:"activity_id"`
	Category   string    `json:"category" db:"category"`
	Amount     float64   `json:"amount" db:"amount"`
	Note       string    `json:"note,omitempty" db:"note"`
	SpentAt    time.Time `json:"spent_at" db:"spent_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
