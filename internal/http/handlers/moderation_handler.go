package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// ModerationHandler предоставляет HTTP слой для жалоб и блокировок.
type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler(s *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: s}
}

// Report обрабатывает POST /reports.
func (h *ModerationHandler) Report(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		TargetType  string    `json:"target_type" binding:"required"`
		TargetID    uuid.UUID `json:"target_id" binding:"required"`
		Reason      string    `json:"reason" binding:"required"`
		Description *string   `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.svc.Report(c.Request.Context(), userID, service.ReportInput{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListMyReports обрабатывает GET /reports/my.
func (h *ModerationHandler) ListMyReports(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reports, err := h.svc.ListMyReports(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Block обрабатывает POST /blocks/:id.
func (h *ModerationHandler) Block(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	blockedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Block(c.Request.Context(), userID, blockedID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "пользователь заблокирован"})
}

// Unblock обрабатывает DELETE /blocks/:id.
func (h *ModerationHandler) Unblock(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	blockedID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Unblock(c.Request.Context(), userID, blockedID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "блокировка снята"})
}

// ListBlocks обрабатывает GET /blocks.
func (h *ModerationHandler) ListBlocks(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	blocks, err := h.svc.ListBlocks(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}
