package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

// Алфавит без визуально похожих символов (0/O, 1/I/L).
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 10

// InviteRepository описывает зависимости InviteService от слоя хранилища.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByCode(ctx context.Context, code string) (*models.Invite, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]models.Invite, error)
	CountUnused(ctx context.Context, createdBy uuid.UUID) (int, error)
}

// InviteService отвечает за выпуск и гашение кодов приглашений.
type InviteService struct {
	repo InviteRepository
}

// NewInviteService создаёт сервис приглашений.
func NewInviteService(repo InviteRepository) *InviteService {
	return &InviteService{repo: repo}
}

// GrantInvites выпускает пользователю count новых кодов.
func (s *InviteService) GrantInvites(ctx context.Context, createdBy uuid.UUID, count int) ([]models.Invite, error) {
	invites := make([]models.Invite, 0, count)

	for i := 0; i < count; i++ {
		code, err := generateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("invite service: не удалось сгенерировать код: %w", err)
		}

		invite := models.Invite{
			Code:      code,
			CreatedBy: createdBy,
		}
		if err := s.repo.Create(ctx, &invite); err != nil {
			return nil, err
		}

		invites = append(invites, invite)
	}

	return invites, nil
}

// ListMyInvites возвращает коды пользователя.
func (s *InviteService) ListMyInvites(ctx context.Context, userID uuid.UUID) ([]models.Invite, error) {
	return s.repo.ListByCreator(ctx, userID)
}

// generateInviteCode формирует случайный код из безопасного алфавита.
func generateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}

	return string(buf), nil
}
