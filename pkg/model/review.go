package model

import (
	"database/sql"
	"time"
)

// Review is a guest's review of a completed farm stay
type Review struct {
	ID             int            `json:"id" db:"id"`
	ReservationID  sql.NullInt64  `json:"-" db:"reservation_id"`
	GuestID        int            `json:"guest_id" db:"guest_id"`
	FarmID         int            `json:"farm_id" db:"farm_id"`
	Rating         int            `json:"rating" db:"rating"`
	Comment        sql.NullString `json:"-" db:"comment"`
	ExperienceDate time.Time      `json:"experience_date" db:"experience_date"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// ReviewCreateRequest is the payload for posting a review.
// ExperienceDate uses the YYYY-MM-DD layout.
type ReviewCreateRequest struct {
	ReservationID  *int64 `json:"reservation_id"`
	FarmID         int    `json:"farm_id" binding:"required"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment" binding:"max=2000"`
	ExperienceDate string `json:"experience_date" binding:"required,datetime=2006-01-02"`
}

// ReviewResponse is returned after a review is created
type ReviewResponse struct {
	Review
	Comment string `json:"comment,omitempty"`
	// StampStatus reports what the stamp sync did with this review
	StampStatus string `json:"stamp_status"`
}
