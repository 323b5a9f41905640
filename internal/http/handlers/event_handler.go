package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// EventHandler предоставляет HTTP слой для событий и заявок.
type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(s *service.EventService) *EventHandler {
	return &EventHandler{svc: s}
}

type eventRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      *string    `json:"description"`
	Location         *string    `json:"location"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	StartsAt         time.Time  `json:"starts_at" binding:"required"`
	EndsAt           *time.Time `json:"ends_at"`
	Capacity         *int       `json:"capacity"`
	RequiresApproval bool       `json:"requires_approval"`
	CoverMediaID     *uuid.UUID `json:"cover_media_id"`
}

func (r eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:            r.Title,
		Description:      r.Description,
		Location:         r.Location,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
		Capacity:         r.Capacity,
		RequiresApproval: r.RequiresApproval,
		CoverMediaID:     r.CoverMediaID,
	}
}

// Create обрабатывает POST /events.
func (h *EventHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	event, err := h.svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// List обрабатывает GET /events.
func (h *EventHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	events, err := h.svc.ListUpcoming(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetByID обрабатывает GET /events/:id.
func (h *EventHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	event, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	approved, err := h.svc.CountApproved(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event, "approved_count": approved})
}

// Update обрабатывает PUT /events/:id.
func (h *EventHandler) Update(c *gin.Context) {
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

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	event, err := h.svc.Update(c.Request.Context(), id, userID, req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete обрабатывает DELETE /events/:id.
func (h *EventHandler) Delete(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"message": "событие удалено"})
}

// RSVP обрабатывает POST /events/:id/rsvp.
func (h *EventHandler) RSVP(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	eventID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rsvp, err := h.svc.RSVP(c.Request.Context(), eventID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, rsvp)
}

// CancelRSVP обрабатывает DELETE /events/:id/rsvp.
func (h *EventHandler) CancelRSVP(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	eventID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.CancelRSVP(c.Request.Context(), eventID, userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "заявка отменена"})
}

// GetMyRSVP обрабатывает GET /events/:id/rsvp.
func (h *EventHandler) GetMyRSVP(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	eventID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rsvp, err := h.svc.GetMyRSVP(c.Request.Context(), eventID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvp": rsvp})
}

// ListRSVPs обрабатывает GET /events/:id/rsvps.
func (h *EventHandler) ListRSVPs(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	eventID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rsvps, err := h.svc.ListRSVPs(c.Request.Context(), eventID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

// DecideRSVP обрабатывает POST /events/:id/rsvps/:user_id/decision.
func (h *EventHandler) DecideRSVP(c *gin.Context) {
	hostID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	eventID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	participantID, err := common.ParseUUIDParam(c, "user_id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.svc.DecideRSVP(c.Request.Context(), eventID, hostID, participantID, req.Approve); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "заявка рассмотрена"})
}
