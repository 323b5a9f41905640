package models

import (
	"time"

	"github.com/google/uuid"
)

// Event описывает событие, организованное пользователем.
type Event struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	HostID           uuid.UUID  `db:"host_id" json:"host_id"`
	Title            string     `db:"title" json:"title"`
	Description      *string    `db:"description" json:"description,omitempty"`
	Location         *string    `db:"location" json:"location,omitempty"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	StartsAt         time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt           *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	Capacity         *int       `db:"capacity" json:"capacity,omitempty"`
	RequiresApproval bool       `db:"requires_approval" json:"requires_approval"`
	CoverMediaID     *uuid.UUID `db:"cover_media_id" json:"cover_media_id,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// EventRSVP — заявка пользователя на участие в событии.
type EventRSVP struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EventCard компактное представление события для списков и обогащения избранного.
type EventCard struct {
	ID       uuid.UUID `db:"id" json:"id"`
	HostID   uuid.UUID `db:"host_id" json:"host_id"`
	Title    string    `db:"title" json:"title"`
	Location *string   `db:"location" json:"location,omitempty"`
	StartsAt time.Time `db:"starts_at" json:"starts_at"`
}
