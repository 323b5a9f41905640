package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/models"
)

func TestTokenManager_PairRoundTrip(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New()}

	pair, accessExp, refreshExp, err := manager.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate вернул ошибку: %v", err)
	}
	if accessExp.After(refreshExp) {
		t.Fatalf("access должен истекать раньше refresh")
	}

	userID, err := manager.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("из токена извлечён чужой userID")
	}

	claims, err := manager.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Fatalf("subject не совпадает")
	}
	if claims.ID == "" {
		t.Fatalf("refresh токен должен иметь случайный ID")
	}
}

func TestTokenManager_RejectsForeignSecrets(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	other := NewTokenManager("other-access", "other-refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New()}

	pair, _, _, err := manager.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := other.ParseAccess(pair.AccessToken); err == nil {
		t.Fatalf("чужой access токен не должен проходить проверку")
	}
	if _, err := other.ParseRefresh(pair.RefreshToken); err == nil {
		t.Fatalf("чужой refresh токен не должен проходить проверку")
	}

	// Access и refresh подписаны разными секретами и не взаимозаменяемы.
	if _, err := manager.ParseAccess(pair.RefreshToken); err == nil {
		t.Fatalf("refresh токен не должен приниматься как access")
	}
}

func TestTokenManager_RejectsExpiredAccess(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
	user := &models.User{ID: uuid.New()}

	pair, _, _, err := manager.GeneratePair(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := manager.ParseAccess(pair.AccessToken); err == nil {
		t.Fatalf("просроченный токен не должен приниматься")
	}
}
