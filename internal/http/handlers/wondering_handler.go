package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// WonderingHandler предоставляет HTTP слой для размышлений.
type WonderingHandler struct {
	svc *service.WonderingService
}

func NewWonderingHandler(s *service.WonderingService) *WonderingHandler {
	return &WonderingHandler{svc: s}
}

// Create обрабатывает POST /wonderings.
func (h *WonderingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	wondering, err := h.svc.Create(c.Request.Context(), userID, req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, wondering)
}

// List обрабатывает GET /wonderings.
func (h *WonderingHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	wonderings, err := h.svc.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wonderings": wonderings})
}

// GetByID обрабатывает GET /wonderings/:id.
func (h *WonderingHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	wondering, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, wondering)
}

// Delete обрабатывает DELETE /wonderings/:id.
func (h *WonderingHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "запись удалена"})
}
