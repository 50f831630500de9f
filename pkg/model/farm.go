package model

import "time"

// Farm is the subset of a listed farm that the stamp engine reads
type Farm struct {
	ID             int       `json:"id" db:"id"`
	HostID         int       `json:"host_id" db:"host_id"`
	Name           string    `json:"name" db:"name"`
	Prefecture     string    `json:"prefecture" db:"prefecture"`
	City           string    `json:"city" db:"city"`
	ExperienceType string    `json:"experience_type" db:"experience_type"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
