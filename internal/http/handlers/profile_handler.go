package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// ProfileHandler предоставляет HTTP слой для профилей.
type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(s *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: s}
}

// GetMe обрабатывает GET /profiles/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetByID обрабатывает GET /profiles/:id.
func (h *ProfileHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe обрабатывает PUT /profiles/me.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		DisplayName      string     `json:"display_name" binding:"required"`
		Bio              *string    `json:"bio"`
		Disciplines      []string   `json:"disciplines"`
		Location         *string    `json:"location"`
		Latitude         *float64   `json:"latitude"`
		Longitude        *float64   `json:"longitude"`
		Website          *string    `json:"website"`
		Instagram        *string    `json:"instagram"`
		PhotoID          *uuid.UUID `json:"photo_id"`
		AvailableForWork bool       `json:"available_for_work"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		DisplayName:      req.DisplayName,
		Bio:              req.Bio,
		Disciplines:      req.Disciplines,
		Location:         req.Location,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Website:          req.Website,
		Instagram:        req.Instagram,
		PhotoID:          req.PhotoID,
		AvailableForWork: req.AvailableForWork,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Search обрабатывает GET /profiles.
func (h *ProfileHandler) Search(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	results, err := h.svc.Search(c.Request.Context(), repository.ProfileSearchParams{
		Query:         c.Query("q"),
		Discipline:    c.Query("discipline"),
		Location:      c.Query("location"),
		AvailableOnly: c.Query("available") == "true",
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": results})
}
