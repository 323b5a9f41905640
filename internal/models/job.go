package models

import (
	"time"

	"github.com/google/uuid"
)

// Job описывает объявление на доске работы.
type Job struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PosterID     uuid.UUID  `db:"poster_id" json:"poster_id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Location     *string    `db:"location" json:"location,omitempty"`
	Compensation *string    `db:"compensation" json:"compensation,omitempty"`
	ContactEmail string     `db:"contact_email" json:"contact_email"`
	Status       string     `db:"status" json:"status"`
	ClosedAt     *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
