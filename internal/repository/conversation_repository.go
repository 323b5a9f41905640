package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

var (
	// ErrConversationNotFound возвращается, когда переписка не найдена.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrMessageNotFound возвращается, когда сообщение не найдено.
	ErrMessageNotFound = errors.New("message not found")
)

// ConversationRepository отвечает за личные переписки и сообщения.
type ConversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// normalizePair возвращает пару идентификаторов в каноническом порядке.
// Порядок фиксирован схемой: user_a_id < user_b_id.
func normalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// GetOrCreate возвращает переписку между двумя пользователями, создавая её при необходимости.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, error) {
	a, b := normalizePair(userA, userB)

	var conv models.Conversation
	query := `
		INSERT INTO conversations (user_a_id, user_b_id)
		VALUES ($1, $2)
		ON CONFLICT (user_a_id, user_b_id) DO UPDATE SET user_a_id = EXCLUDED.user_a_id
		RETURNING id, user_a_id, user_b_id, created_at, last_message_at
	`
	if err := r.db.GetContext(ctx, &conv, query, a, b); err != nil {
		return nil, fmt.Errorf("conversation repository: get or create %w", err)
	}

	return &conv, nil
}

// GetByID возвращает переписку по идентификатору.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.GetContext(ctx, &conv, `SELECT * FROM conversations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation repository: get by id %w", err)
	}
	return &conv, nil
}

// ListByUser возвращает переписки пользователя, последние активные первыми.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	query := `
		SELECT * FROM conversations
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, fmt.Errorf("conversation repository: list by user %w", err)
	}
	return convs, nil
}

// CreateMessage сохраняет сообщение и обновляет отметку активности переписки.
func (r *ConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("conversation repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO messages (conversation_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err = tx.QueryRowxContext(ctx, query, message.ConversationID, message.SenderID, message.Body).
		Scan(&message.ID, &message.CreatedAt); err != nil {
		return fmt.Errorf("conversation repository: create message %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE conversations SET last_message_at = $1 WHERE id = $2
	`, message.CreatedAt, message.ConversationID); err != nil {
		return fmt.Errorf("conversation repository: update last_message_at %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("conversation repository: commit %w", err)
	}

	return nil
}

// ListMessages возвращает сообщения переписки, новые первыми.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID, limit, offset); err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}
	return messages, nil
}

// GetLastMessage возвращает последнее сообщение переписки.
func (r *ConversationRepository) GetLastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	var message models.Message
	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &message, query, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("conversation repository: get last message %w", err)
	}
	return &message, nil
}

// MarkRead помечает прочитанными все входящие сообщения переписки.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = NOW()
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL
	`, conversationID, readerID); err != nil {
		return fmt.Errorf("conversation repository: mark read %w", err)
	}
	return nil
}

// CountUnread возвращает число непрочитанных входящих сообщений переписки.
func (r *ConversationRepository) CountUnread(ctx context.Context, conversationID, readerID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM messages
		WHERE conversation_id = $1 AND sender_id <> $2 AND read_at IS NULL
	`
	if err := r.db.GetContext(ctx, &count, query, conversationID, readerID); err != nil {
		return 0, fmt.Errorf("conversation repository: count unread %w", err)
	}
	return count, nil
}
