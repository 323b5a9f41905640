package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite — одноразовый код приглашения.
// Регистрация требует действующий код; исключение — первый пользователь системы.
type Invite struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	UsedBy    *uuid.UUID `db:"used_by" json:"used_by,omitempty"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// IsUsed сообщает, был ли код уже погашен.
func (i *Invite) IsUsed() bool {
	return i.UsedBy != nil
}
