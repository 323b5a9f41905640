package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrSessionNotFound возвращается, когда сессия не найдена или уже отозвана.
var ErrSessionNotFound = errors.New("session not found")

// UserRepository отвечает за работу с таблицами users, profiles и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Username, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// CreateWithInvite создаёт пользователя и гасит код приглашения одной транзакцией:
// при невалидном коде не остаётся ни пользователя, ни занятого email.
// Условие used_by IS NULL гарантирует, что из двух одновременных регистраций
// код достанется только одной.
func (r *UserRepository) CreateWithInvite(ctx context.Context, user *models.User, inviteCode string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("user repository: begin tx %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowxContext(ctx, `
		INSERT INTO users (email, username, password_hash, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create with invite %w", err)
	}

	var inviteID uuid.UUID
	err = tx.GetContext(ctx, &inviteID, `
		UPDATE invites SET used_by = $1, used_at = NOW()
		WHERE code = $2 AND used_by IS NULL
		RETURNING id
	`, user.ID, inviteCode)
	if errors.Is(err, sql.ErrNoRows) {
		// Различаем несуществующий и уже использованный код.
		var exists bool
		if getErr := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM invites WHERE code = $1)`, inviteCode); getErr != nil {
			return fmt.Errorf("user repository: check invite %w", getErr)
		}
		if !exists {
			return ErrInviteNotFound
		}
		return ErrInviteAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("user repository: claim invite %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("user repository: commit %w", err)
	}

	return nil
}

// Count возвращает общее число пользователей (нужно для bootstrap первого пользователя).
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("user repository: count %w", err)
	}
	return count, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, username, password_hash, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, username, password_hash, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpdateLastLoginAt обновляет время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last_login_at %w", err)
	}
	return nil
}

// UpsertProfile создаёт или обновляет профиль пользователя.
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, bio, disciplines, location, latitude, longitude, website, instagram, photo_id, available_for_work, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			disciplines = EXCLUDED.disciplines,
			location = EXCLUDED.location,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			website = EXCLUDED.website,
			instagram = EXCLUDED.instagram,
			photo_id = EXCLUDED.photo_id,
			available_for_work = EXCLUDED.available_for_work,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		pq.Array(profile.Disciplines),
		profile.Location,
		profile.Latitude,
		profile.Longitude,
		profile.Website,
		profile.Instagram,
		profile.PhotoID,
		profile.AvailableForWork,
	).Scan(&profile.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: upsert profile %w", err)
	}

	return nil
}

// GetProfile возвращает профиль пользователя.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT user_id, display_name, bio, disciplines, location, latitude, longitude, website, instagram, photo_id, available_for_work, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	var disciplines pq.StringArray

	if err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Bio,
		&disciplines,
		&profile.Location,
		&profile.Latitude,
		&profile.Longitude,
		&profile.Website,
		&profile.Instagram,
		&profile.PhotoID,
		&profile.AvailableForWork,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}

	profile.Disciplines = []string(disciplines)

	return &profile, nil
}

// GetProfileCard возвращает компактную карточку профиля для списков.
func (r *UserRepository) GetProfileCard(ctx context.Context, userID uuid.UUID) (*models.ProfileCard, error) {
	query := `
		SELECT u.id, u.username, p.display_name, p.disciplines, p.location, p.photo_id
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`

	var card models.ProfileCard
	var disciplines pq.StringArray

	if err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&card.UserID,
		&card.Username,
		&card.DisplayName,
		&disciplines,
		&card.Location,
		&card.PhotoID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get profile card %w", err)
	}

	card.Disciplines = []string(disciplines)

	return &card, nil
}

// ProfileSearchParams параметры поиска профилей.
type ProfileSearchParams struct {
	Query         string
	Discipline    string
	Location      string
	AvailableOnly bool
	Limit         int
	Offset        int
}

// SearchProfiles выполняет поиск профилей по фильтрам.
func (r *UserRepository) SearchProfiles(ctx context.Context, params ProfileSearchParams) ([]models.ProfileSearchResult, error) {
	query := `
		SELECT u.id, u.username, u.created_at, p.display_name, p.bio, p.disciplines, p.location, p.photo_id, p.available_for_work
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.is_active = TRUE
	`
	args := []interface{}{}
	idx := 1

	if params.Query != "" {
		query += fmt.Sprintf(" AND (p.display_name ILIKE $%d OR p.bio ILIKE $%d OR u.username ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+params.Query+"%")
		idx++
	}
	if params.Discipline != "" {
		query += fmt.Sprintf(" AND $%d = ANY(p.disciplines)", idx)
		args = append(args, strings.ToLower(strings.TrimSpace(params.Discipline)))
		idx++
	}
	if params.Location != "" {
		query += fmt.Sprintf(" AND p.location ILIKE $%d", idx)
		args = append(args, "%"+params.Location+"%")
		idx++
	}
	if params.AvailableOnly {
		query += " AND p.available_for_work = TRUE"
	}

	query += fmt.Sprintf(" ORDER BY p.updated_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("user repository: search profiles %w", err)
	}
	defer rows.Close()

	var results []models.ProfileSearchResult
	for rows.Next() {
		var res models.ProfileSearchResult
		var disciplines pq.StringArray

		if err := rows.Scan(
			&res.UserID,
			&res.Username,
			&res.CreatedAt,
			&res.DisplayName,
			&res.Bio,
			&disciplines,
			&res.Location,
			&res.PhotoID,
			&res.AvailableForWork,
		); err != nil {
			return nil, fmt.Errorf("user repository: search scan %w", err)
		}

		res.Disciplines = []string(disciplines)
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user repository: search rows %w", err)
	}

	return results, nil
}

// CreateSession сохраняет новую сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx,
		query,
		session.UserID,
		session.RefreshToken,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session %w", err)
	}

	return nil
}

// GetSessionByToken возвращает сессию по refresh токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	query := `SELECT * FROM user_sessions WHERE refresh_token = $1`
	if err := r.db.GetContext(ctx, &session, query, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("user repository: get session %w", err)
	}
	return &session, nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	return nil
}

// ListSessions возвращает активные сессии пользователя.
func (r *UserRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	query := `SELECT * FROM user_sessions WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("user repository: list sessions %w", err)
	}
	return sessions, nil
}

// DeleteSessionByID удаляет конкретную сессию пользователя.
func (r *UserRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`, sessionID, userID)
	if err != nil {
		return fmt.Errorf("user repository: delete session by id %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAllSessionsExcept удаляет все сессии пользователя кроме текущей.
func (r *UserRepository) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM user_sessions WHERE user_id = $1 AND refresh_token <> $2
	`, userID, exceptRefreshToken); err != nil {
		return fmt.Errorf("user repository: delete all sessions %w", err)
	}
	return nil
}
