package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation описывает личную переписку между двумя пользователями.
// Пара (user_a_id, user_b_id) хранится в нормализованном порядке: user_a_id < user_b_id.
type Conversation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserAID       uuid.UUID  `db:"user_a_id" json:"user_a_id"`
	UserBID       uuid.UUID  `db:"user_b_id" json:"user_b_id"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
}

// OtherParticipant возвращает собеседника для userID.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// HasParticipant проверяет участие пользователя в переписке.
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Message описывает сообщение в переписке.
type Message struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConversationID uuid.UUID  `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID  `db:"sender_id" json:"sender_id"`
	Body           string     `db:"body" json:"body"`
	ReadAt         *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// ConversationPreview — переписка со сведениями для списка диалогов.
type ConversationPreview struct {
	Conversation
	LastMessage *Message     `json:"last_message,omitempty"`
	Companion   *ProfileCard `json:"companion,omitempty"`
	UnreadCount int          `json:"unread_count"`
}
