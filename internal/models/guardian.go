package models

import "time"

// Guardian is a parent or legal guardian attached to an athlete.
type Guardian struct {
	ID           string    `db:"id" json:"id"`
	AthleteID    string    `db:"athlete_id" json:"athlete_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        *string   `db:"email" json:"email,omitempty"`
	GuardianType string    `db:"guardian_type" json:"guardian_type"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
