package models

import (
	"time"
)

// SavedCrop is a crop recommendation the user chose to keep on their dashboard
type SavedCrop struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CropName    string    `json:"crop_name" db:"crop_name"`
	Probability float64   `json:"probability" db:"probability"`
	SowingDate  time.Time `json:"sowing_date" db:"sowing_date"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SavedFertilizer is a fertilizer recommendation persisted from a scoring pass
type SavedFertilizer struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	CropType   string    `json:"crop_type" db:"crop_type"`
	SoilType   string    `json:"soil_type,omitempty" db:"soil_type"`
	Priority   string    `json:"priority" db:"priority"`
	Dosage     string    `json:"dosage" db:"dosage"`
	Usage      string    `json:"usage" db:"usage"`
	Note       string    `json:"note,omitempty" db:"note"`
	Confidence float64   `json:"confidence" db:"confidence"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
