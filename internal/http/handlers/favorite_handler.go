package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
}

func NewFavoriteHandler(s *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: s}
}

// Toggle POST /favorites/toggle
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		TargetType string `json:"target_type" binding:"required"`
		TargetID   string `json:"target_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	targetID, _ := uuid.Parse(req.TargetID)
	result, err := h.svc.Toggle(c.Request.Context(), userID, req.TargetType, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Check GET /favorites/check?target_type=profile&target_id=...
func (h *FavoriteHandler) Check(c *gin.Context) {
	userID := common.OptionalUserID(c)

	targetType := c.Query("target_type")
	targetID, _ := uuid.Parse(c.Query("target_id"))

	favorited, err := h.svc.IsFavorited(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// Count GET /favorites/count?target_type=event&target_id=...
func (h *FavoriteHandler) Count(c *gin.Context) {
	targetType := c.Query("target_type")
	targetID, _ := uuid.Parse(c.Query("target_id"))

	count, err := h.svc.GetFavoriteCount(c.Request.Context(), targetType, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// My GET /favorites/my
func (h *FavoriteHandler) My(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	favorites, err := h.svc.GetMyFavorites(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, favorites)
}
