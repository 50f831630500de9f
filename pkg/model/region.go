package model

import "time"

// Region is one entry of the prefecture catalog
type Region struct {
	Code         string    `db:"code" json:"prefecture_code"`
	Name         string    `db:"name" json:"name"`
	NameRomaji   string    `db:"name_romaji" json:"name_romaji"`
	Area         string    `db:"area" json:"region"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}
