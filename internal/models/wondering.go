package models

import (
	"time"

	"github.com/google/uuid"
)

// Wondering — публичный вопрос-размышление с ограниченным сроком жизни.
type Wondering struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// IsExpired сообщает, истёк ли срок жизни записи на момент now.
func (w *Wondering) IsExpired(now time.Time) bool {
	return !w.ExpiresAt.After(now)
}
