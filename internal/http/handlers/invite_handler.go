package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// InviteHandler предоставляет HTTP слой для кодов приглашений.
type InviteHandler struct {
	svc *service.InviteService
}

func NewInviteHandler(s *service.InviteService) *InviteHandler {
	return &InviteHandler{svc: s}
}

// ListMine обрабатывает GET /invites.
func (h *InviteHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	invites, err := h.svc.ListMyInvites(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}
