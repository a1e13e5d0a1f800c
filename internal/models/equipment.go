package models

import (
	"time"
)

// Equipment status values
const (
	EquipmentStatusAvailable = "available"
	EquipmentStatusRequested = "requested"
	EquipmentStatusRented    = "rented"
)

// Equipment is a machine listed for sharing between farmers
type Equipment struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category" db:"category"`
	DailyRate    float64   `json:"daily_rate" db:"daily_rate"`
	District     string    `json:"district,omitempty" db:"district"`
	Status       string    `json:"status" db:"status"`
	RequestedBy  string    `json:"requested_by,omitempty" db:"requested_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
