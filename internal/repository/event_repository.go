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
	// ErrEventNotFound возвращается, когда событие не найдено.
	ErrEventNotFound = errors.New("event not found")
	// ErrRSVPNotFound возвращается, когда заявка на участие не найдена.
	ErrRSVPNotFound = errors.New("rsvp not found")
	// ErrEventFull возвращается, когда свободных мест не осталось.
	ErrEventFull = errors.New("event is full")
)

// EventRepository отвечает за события и заявки на участие.
type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create создаёт событие.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (host_id, title, description, location, latitude, longitude, starts_at, ends_at, capacity, requires_approval, cover_media_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		event.HostID,
		event.Title,
		event.Description,
		event.Location,
		event.Latitude,
		event.Longitude,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.RequiresApproval,
		event.CoverMediaID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		return fmt.Errorf("event repository: create %w", err)
	}

	return nil
}

// GetByID возвращает событие по идентификатору.
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := r.db.GetContext(ctx, &event, `SELECT * FROM events WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event repository: get by id %w", err)
	}
	return &event, nil
}

// GetCard возвращает компактную карточку события.
func (r *EventRepository) GetCard(ctx context.Context, id uuid.UUID) (*models.EventCard, error) {
	var card models.EventCard
	query := `SELECT id, host_id, title, location, starts_at FROM events WHERE id = $1`
	if err := r.db.GetContext(ctx, &card, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("event repository: get card %w", err)
	}
	return &card, nil
}

// ListUpcoming возвращает предстоящие события, ближайшие первыми.
func (r *EventRepository) ListUpcoming(ctx context.Context, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	query := `
		SELECT * FROM events
		WHERE starts_at > NOW()
		ORDER BY starts_at ASC
		LIMIT $1 OFFSET $2
	`
	if err := r.db.SelectContext(ctx, &events, query, limit, offset); err != nil {
		return nil, fmt.Errorf("event repository: list upcoming %w", err)
	}
	return events, nil
}

// ListByHost возвращает события организатора.
func (r *EventRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	query := `SELECT * FROM events WHERE host_id = $1 ORDER BY starts_at DESC`
	if err := r.db.SelectContext(ctx, &events, query, hostID); err != nil {
		return nil, fmt.Errorf("event repository: list by host %w", err)
	}
	return events, nil
}

// Update обновляет событие.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, latitude = $4, longitude = $5,
			starts_at = $6, ends_at = $7, capacity = $8, requires_approval = $9,
			cover_media_id = $10, updated_at = NOW()
		WHERE id = $11
	`

	res, err := r.db.ExecContext(
		ctx, query,
		event.Title, event.Description, event.Location, event.Latitude, event.Longitude,
		event.StartsAt, event.EndsAt, event.Capacity, event.RequiresApproval,
		event.CoverMediaID, event.ID,
	)
	if err != nil {
		return fmt.Errorf("event repository: update %w", err)
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete удаляет событие.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("event repository: delete %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// UpsertRSVP создаёт или обновляет заявку пользователя на участие.
// При подтверждающей записи на событие с ограниченной вместимостью проверка
// мест и запись выполняются в одной транзакции под блокировкой строки события,
// поэтому две одновременные заявки не займут одно последнее место.
func (r *EventRepository) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP, capacity *int) error {
	query := `
		INSERT INTO event_rsvps (event_id, user_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if rsvp.Status != models.RSVPStatusApproved || capacity == nil {
		if err := r.db.QueryRowxContext(ctx, query, rsvp.EventID, rsvp.UserID, rsvp.Status).
			Scan(&rsvp.ID, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
			return fmt.Errorf("event repository: upsert rsvp %w", err)
		}
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("event repository: begin tx %w", err)
	}
	defer tx.Rollback()

	if err := r.lockAndCheckCapacity(ctx, tx, rsvp.EventID, *capacity); err != nil {
		return err
	}

	if err := tx.QueryRowxContext(ctx, query, rsvp.EventID, rsvp.UserID, rsvp.Status).
		Scan(&rsvp.ID, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
		return fmt.Errorf("event repository: upsert rsvp %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("event repository: commit %w", err)
	}

	return nil
}

// GetRSVP возвращает заявку пользователя на событие.
func (r *EventRepository) GetRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	query := `SELECT * FROM event_rsvps WHERE event_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &rsvp, query, eventID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRSVPNotFound
		}
		return nil, fmt.Errorf("event repository: get rsvp %w", err)
	}
	return &rsvp, nil
}

// UpdateRSVPStatus меняет статус заявки. Перевод в approved на событии с
// ограниченной вместимостью идёт через ту же транзакционную проверку мест,
// что и UpsertRSVP.
func (r *EventRepository) UpdateRSVPStatus(ctx context.Context, eventID, userID uuid.UUID, status string, capacity *int) error {
	query := `
		UPDATE event_rsvps SET status = $1, updated_at = NOW()
		WHERE event_id = $2 AND user_id = $3
	`

	if status != models.RSVPStatusApproved || capacity == nil {
		res, err := r.db.ExecContext(ctx, query, status, eventID, userID)
		if err != nil {
			return fmt.Errorf("event repository: update rsvp status %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return ErrRSVPNotFound
		}
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("event repository: begin tx %w", err)
	}
	defer tx.Rollback()

	if err := r.lockAndCheckCapacity(ctx, tx, eventID, *capacity); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, query, status, eventID, userID)
	if err != nil {
		return fmt.Errorf("event repository: update rsvp status %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrRSVPNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("event repository: commit %w", err)
	}

	return nil
}

// lockAndCheckCapacity блокирует строку события и сверяет число подтверждённых
// заявок с вместимостью.
func (r *EventRepository) lockAndCheckCapacity(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID, capacity int) error {
	var lockedID uuid.UUID
	if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return fmt.Errorf("event repository: lock event %w", err)
	}

	var approved int
	if err := tx.GetContext(ctx, &approved, `
		SELECT COUNT(*) FROM event_rsvps WHERE event_id = $1 AND status = $2
	`, eventID, models.RSVPStatusApproved); err != nil {
		return fmt.Errorf("event repository: count approved %w", err)
	}

	if approved >= capacity {
		return ErrEventFull
	}

	return nil
}

// ListRSVPs возвращает заявки события, новые первыми.
func (r *EventRepository) ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]models.EventRSVP, error) {
	var rsvps []models.EventRSVP
	query := `SELECT * FROM event_rsvps WHERE event_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rsvps, query, eventID); err != nil {
		return nil, fmt.Errorf("event repository: list rsvps %w", err)
	}
	return rsvps, nil
}

// CountApproved возвращает число подтверждённых участников.
// Используется при проверке вместимости события.
func (r *EventRepository) CountApproved(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM event_rsvps WHERE event_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, eventID, models.RSVPStatusApproved); err != nil {
		return 0, fmt.Errorf("event repository: count approved %w", err)
	}
	return count, nil
}
