package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestInviteService_GrantInvitesIssuesUniqueCodes(t *testing.T) {
	repo := newMockInviteRepository()
	svc := NewInviteService(repo)
	ctx := context.Background()

	userID := uuid.New()
	invites, err := svc.GrantInvites(ctx, userID, 5)
	if err != nil {
		t.Fatalf("grant вернул ошибку: %v", err)
	}

	if len(invites) != 5 {
		t.Fatalf("ожидалось 5 кодов, получили %d", len(invites))
	}

	seen := make(map[string]struct{})
	for _, invite := range invites {
		if invite.CreatedBy != userID {
			t.Fatalf("код должен принадлежать выпустившему пользователю")
		}
		if invite.IsUsed() {
			t.Fatalf("свежий код не должен быть погашен")
		}
		if _, dup := seen[invite.Code]; dup {
			t.Fatalf("коды должны быть уникальны, повтор: %s", invite.Code)
		}
		seen[invite.Code] = struct{}{}
	}

	unused, err := repo.CountUnused(ctx, userID)
	if err != nil || unused != 5 {
		t.Fatalf("ожидалось 5 непогашенных кодов, получили %d (err: %v)", unused, err)
	}
}

func TestInviteService_CodesUseSafeAlphabet(t *testing.T) {
	repo := newMockInviteRepository()
	svc := NewInviteService(repo)

	invites, err := svc.GrantInvites(context.Background(), uuid.New(), 20)
	if err != nil {
		t.Fatalf("grant вернул ошибку: %v", err)
	}

	for _, invite := range invites {
		if len(invite.Code) != inviteCodeLength {
			t.Fatalf("длина кода должна быть %d, получили %q", inviteCodeLength, invite.Code)
		}
		for _, r := range invite.Code {
			if !strings.ContainsRune(inviteCodeAlphabet, r) {
				t.Fatalf("код %q содержит символ вне алфавита: %q", invite.Code, r)
			}
		}
	}
}

func TestInviteService_ListMyInvites(t *testing.T) {
	repo := newMockInviteRepository()
	svc := NewInviteService(repo)
	ctx := context.Background()

	mine := uuid.New()
	other := uuid.New()

	if _, err := svc.GrantInvites(ctx, mine, 2); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.GrantInvites(ctx, other, 1); err != nil {
		t.Fatalf("grant: %v", err)
	}

	invites, err := svc.ListMyInvites(ctx, mine)
	if err != nil {
		t.Fatalf("list вернул ошибку: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("ожидалось 2 кода, получили %d", len(invites))
	}
}
