package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/analytics"
	"github.com/rockodragon/wonderwall-backend/internal/geo"
	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
)

// ProxyHandler предоставляет ручки-прокси к внешним сервисам:
// геокодеру и сборщику аналитики.
type ProxyHandler struct {
	geocoder  *geo.Client
	analytics *analytics.Client
}

func NewProxyHandler(geocoder *geo.Client, analytics *analytics.Client) *ProxyHandler {
	return &ProxyHandler{geocoder: geocoder, analytics: analytics}
}

// Geocode обрабатывает GET /geocode?q=...
func (h *ProxyHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		common.RespondBadRequest(c, "параметр q обязателен")
		return
	}

	locations, err := h.geocoder.Geocode(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "геокодер недоступен"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// TrackEvent обрабатывает POST /analytics/events.
// Отправка асинхронная, клиент всегда получает 202.
func (h *ProxyHandler) TrackEvent(c *gin.Context) {
	var req struct {
		Name  string                 `json:"name" binding:"required"`
		Props map[string]interface{} `json:"props"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	event := analytics.Event{
		Name:  req.Name,
		Props: req.Props,
	}
	if userID := common.OptionalUserID(c); userID != uuid.Nil {
		event.UserID = &userID
	}

	h.analytics.Track(event)

	c.JSON(http.StatusAccepted, gin.H{"message": "принято"})
}
