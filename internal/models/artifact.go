package models

import (
	"time"

	"github.com/google/uuid"
)

// Artifact описывает работу в портфолио пользователя.
type Artifact struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Title        string     `db:"title" json:"title"`
	Description  *string    `db:"description" json:"description,omitempty"`
	CoverMediaID *uuid.UUID `db:"cover_media_id" json:"cover_media_id,omitempty"`
	Tags         []string   `db:"tags" json:"tags"`
	ExternalLink *string    `db:"external_link" json:"external_link,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// ArtifactMedia связывает работу с загруженным файлом.
type ArtifactMedia struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ArtifactID uuid.UUID `db:"artifact_id" json:"artifact_id"`
	MediaID    uuid.UUID `db:"media_id" json:"media_id"`
	Position   int       `db:"position" json:"position"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
