package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rockodragon/wonderwall-backend/internal/models"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	profiles     map[uuid.UUID]*models.Profile
	sessions     map[string]*models.Session
	invites      *mockInviteRepository
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

// CreateWithInvite повторяет транзакционную семантику: при невалидном коде
// пользователь не сохраняется.
func (m *mockAuthRepository) CreateWithInvite(ctx context.Context, user *models.User, inviteCode string) error {
	invite, ok := m.invites.invites[inviteCode]
	if !ok {
		return repository.ErrInviteNotFound
	}
	if invite.UsedBy != nil {
		return repository.ErrInviteAlreadyUsed
	}

	if err := m.Create(ctx, user); err != nil {
		return err
	}

	now := time.Now()
	invite.UsedBy = &user.ID
	invite.UsedAt = &now
	return nil
}

func (m *mockAuthRepository) Count(ctx context.Context) (int, error) {
	return len(m.usersByID), nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := m.profiles[userID]; ok {
		return profile, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if session, ok := m.sessions[refreshToken]; ok {
		return session, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

func (m *mockAuthRepository) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	for token, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			delete(m.sessions, token)
			return nil
		}
	}
	return nil
}

func (m *mockAuthRepository) DeleteAllSessionsExcept(ctx context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	for token, s := range m.sessions {
		if s.UserID == userID && token != exceptRefreshToken {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

// mockInviteRepository реализует InviteRepository.
type mockInviteRepository struct {
	invites map[string]*models.Invite
}

func newMockInviteRepository() *mockInviteRepository {
	return &mockInviteRepository{invites: make(map[string]*models.Invite)}
}

func (m *mockInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	invite.ID = uuid.New()
	invite.CreatedAt = time.Now()
	m.invites[invite.Code] = invite
	return nil
}

func (m *mockInviteRepository) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	if invite, ok := m.invites[code]; ok {
		return invite, nil
	}
	return nil, repository.ErrInviteNotFound
}

func (m *mockInviteRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]models.Invite, error) {
	var result []models.Invite
	for _, invite := range m.invites {
		if invite.CreatedBy == createdBy {
			result = append(result, *invite)
		}
	}
	return result, nil
}

func (m *mockInviteRepository) CountUnused(ctx context.Context, createdBy uuid.UUID) (int, error) {
	count := 0
	for _, invite := range m.invites {
		if invite.CreatedBy == createdBy && invite.UsedBy == nil {
			count++
		}
	}
	return count, nil
}

func newAuthServiceForTest(repo *mockAuthRepository, invites *mockInviteRepository) *AuthService {
	repo.invites = invites
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	inviteService := NewInviteService(invites)
	return NewAuthService(repo, inviteService, tokenManager, 3)
}

func TestAuthService_FirstUserRegistersWithoutInvite(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Email:    "founder@example.com",
		Password: "Password123",
	}, map[string]string{"ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	if res.User.ID == uuid.Nil {
		t.Fatalf("user ID должен быть установлен")
	}
	if res.Profile == nil || res.Profile.DisplayName == "" {
		t.Fatalf("профиль должен быть создан")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(repo.sessions))
	}

	// Новому пользователю выдаются его собственные коды.
	granted, _ := invites.ListByCreator(ctx, res.User.ID)
	if len(granted) != 3 {
		t.Fatalf("ожидалось 3 кода приглашений, получили %d", len(granted))
	}
}

func TestAuthService_SecondUserRequiresInvite(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	founder, err := service.Register(ctx, RegisterInput{
		Email:    "founder@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("регистрация первого пользователя: %v", err)
	}

	// Без кода — отказ.
	if _, err := service.Register(ctx, RegisterInput{
		Email:    "guest@example.com",
		Password: "Password123",
	}, nil); err == nil {
		t.Fatalf("регистрация без кода должна быть отклонена")
	}

	granted, _ := invites.ListByCreator(ctx, founder.User.ID)
	if len(granted) == 0 {
		t.Fatalf("у первого пользователя должны быть коды")
	}

	res, err := service.Register(ctx, RegisterInput{
		Email:      "guest@example.com",
		Password:   "Password123",
		InviteCode: granted[0].Code,
	}, nil)
	if err != nil {
		t.Fatalf("регистрация с кодом вернула ошибку: %v", err)
	}

	claimed, _ := invites.GetByCode(ctx, granted[0].Code)
	if claimed.UsedBy == nil || *claimed.UsedBy != res.User.ID {
		t.Fatalf("код должен быть погашен новым пользователем")
	}

	// Повторное использование того же кода — отказ.
	if _, err := service.Register(ctx, RegisterInput{
		Email:      "third@example.com",
		Password:   "Password123",
		InviteCode: granted[0].Code,
	}, nil); err == nil {
		t.Fatalf("погашенный код не должен приниматься повторно")
	}
}

func TestAuthService_RejectsDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	if _, err := service.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "Password123",
	}, nil); err != nil {
		t.Fatalf("первая регистрация: %v", err)
	}

	if _, err := service.Register(ctx, RegisterInput{
		Email:      "user@example.com",
		Password:   "Password123",
		InviteCode: "WHATEVER99",
	}, nil); err == nil {
		t.Fatalf("повторная регистрация с тем же email должна быть отклонена")
	}
}

func TestAuthService_LoginAndRefresh(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	repo.invites = invites
	tokenManager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	service := NewAuthService(repo, NewInviteService(invites), tokenManager, 0)

	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "user@example.com",
		Password: "password",
	}, nil)
	if err != nil {
		t.Fatalf("login вернул ошибку: %v", err)
	}
	if loginRes.TokenPair.AccessToken == "" {
		t.Fatalf("ожидался access токен")
	}
	if user.LastLoginAt == nil {
		t.Fatalf("last_login_at должен обновиться")
	}

	newPair, err := service.Refresh(ctx, loginRes.TokenPair.RefreshToken, nil)
	if err != nil {
		t.Fatalf("refresh вернул ошибку: %v", err)
	}
	if newPair.RefreshToken == loginRes.TokenPair.RefreshToken {
		t.Fatalf("ожидался новый refresh токен")
	}
	if _, ok := repo.sessions[loginRes.TokenPair.RefreshToken]; ok {
		t.Fatalf("старая сессия должна быть удалена")
	}
}

func TestAuthService_LoginRejectsInactiveUser(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "banned@example.com",
		Username:     "banned",
		PasswordHash: string(hash),
		IsActive:     false,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	if _, err := service.Login(context.Background(), LoginInput{
		Email:    "banned@example.com",
		Password: "password",
	}, nil); err == nil {
		t.Fatalf("вход заблокированного пользователя должен быть отклонён")
	}
}

func TestAuthService_RejectedInviteLeavesNoUser(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	founder, err := service.Register(ctx, RegisterInput{
		Email:    "founder@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("регистрация первого пользователя: %v", err)
	}

	granted, _ := invites.ListByCreator(ctx, founder.User.ID)
	if _, err := service.Register(ctx, RegisterInput{
		Email:      "guest@example.com",
		Password:   "Password123",
		InviteCode: granted[0].Code,
	}, nil); err != nil {
		t.Fatalf("регистрация с валидным кодом: %v", err)
	}

	// Погашенный код: регистрация отклоняется и не оставляет пользователя,
	// email остаётся свободным.
	if _, err := service.Register(ctx, RegisterInput{
		Email:      "late@example.com",
		Password:   "Password123",
		InviteCode: granted[0].Code,
	}, nil); err == nil {
		t.Fatalf("погашенный код не должен приниматься")
	}
	if user, ok := repo.usersByEmail["late@example.com"]; ok {
		t.Fatalf("после отказа в регистрации в хранилище остался пользователь: %+v", user)
	}

	// Несуществующий код — то же самое.
	if _, err := service.Register(ctx, RegisterInput{
		Email:      "late@example.com",
		Password:   "Password123",
		InviteCode: "NOSUCHCODE",
	}, nil); err == nil {
		t.Fatalf("несуществующий код не должен приниматься")
	}
	if _, ok := repo.usersByEmail["late@example.com"]; ok {
		t.Fatalf("email не должен быть занят после отказа по коду")
	}
	if len(repo.usersByID) != 2 {
		t.Fatalf("ожидалось 2 пользователя, получили %d", len(repo.usersByID))
	}
}

func TestAuthService_RefreshRejectsRevokedSession(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	// После logout подпись токена всё ещё валидна, но сессии больше нет.
	if err := service.Logout(ctx, res.TokenPair.RefreshToken); err != nil {
		t.Fatalf("logout вернул ошибку: %v", err)
	}

	if _, err := service.Refresh(ctx, res.TokenPair.RefreshToken, nil); err == nil {
		t.Fatalf("отозванная сессия не должна обновляться")
	}
	if len(repo.sessions) != 0 {
		t.Fatalf("после отказа в refresh не должно появляться новых сессий")
	}
}

func TestAuthService_RefreshRejectsSessionRevokedByID(t *testing.T) {
	repo := newMockAuthRepository()
	invites := newMockInviteRepository()
	service := newAuthServiceForTest(repo, invites)

	ctx := context.Background()
	res, err := service.Register(ctx, RegisterInput{
		Email:    "user@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("register вернул ошибку: %v", err)
	}

	sessions, _ := service.ListSessions(ctx, res.User.ID)
	if len(sessions) != 1 {
		t.Fatalf("ожидалась одна сессия, получили %d", len(sessions))
	}
	if err := service.DeleteSession(ctx, sessions[0].ID, res.User.ID); err != nil {
		t.Fatalf("удаление сессии вернуло ошибку: %v", err)
	}

	if _, err := service.Refresh(ctx, res.TokenPair.RefreshToken, nil); err == nil {
		t.Fatalf("сессия, отозванная по id, не должна обновляться")
	}
}
