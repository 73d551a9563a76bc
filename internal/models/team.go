package models

import "time"

// Team groups athletes of an age group for a season.
type Team struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	AgeGroup    string    `db:"age_group" json:"age_group"`
	Season      string    `db:"season" json:"season"`
	HeadCoachID *string   `db:"head_coach_id" json:"head_coach_id,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Season bounds a sporting year.
type Season struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Active    bool      `db:"active" json:"active"`
}
