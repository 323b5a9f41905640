package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rockodragon/wonderwall-backend/internal/http/handlers/common"
	"github.com/rockodragon/wonderwall-backend/internal/service"
)

// ArtifactHandler предоставляет HTTP слой для портфолио.
type ArtifactHandler struct {
	svc *service.ArtifactService
}

func NewArtifactHandler(s *service.ArtifactService) *ArtifactHandler {
	return &ArtifactHandler{svc: s}
}

type artifactRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description"`
	CoverMediaID *uuid.UUID `json:"cover_media_id"`
	Tags         []string   `json:"tags"`
	ExternalLink *string    `json:"external_link"`
}

func (r artifactRequest) toInput() service.ArtifactInput {
	return service.ArtifactInput{
		Title:        r.Title,
		Description:  r.Description,
		CoverMediaID: r.CoverMediaID,
		Tags:         r.Tags,
		ExternalLink: r.ExternalLink,
	}
}

// Create обрабатывает POST /artifacts.
func (h *ArtifactHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req artifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artifact, err := h.svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, artifact)
}

// GetByID обрабатывает GET /artifacts/:id.
func (h *ArtifactHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artifact, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, artifact)
}

// ListByUser обрабатывает GET /users/:id/artifacts.
func (h *ArtifactHandler) ListByUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artifacts, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"artifacts": artifacts})
}

// Update обрабатывает PUT /artifacts/:id.
func (h *ArtifactHandler) Update(c *gin.Context) {
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

	var req artifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	artifact, err := h.svc.Update(c.Request.Context(), id, userID, req.toInput())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, artifact)
}

// Delete обрабатывает DELETE /artifacts/:id.
func (h *ArtifactHandler) Delete(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"message": "работа удалена"})
}

// AttachMedia обрабатывает POST /artifacts/:id/media.
func (h *ArtifactHandler) AttachMedia(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	artifactID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		MediaID  uuid.UUID `json:"media_id" binding:"required"`
		Position int       `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	am, err := h.svc.AttachMedia(c.Request.Context(), artifactID, userID, req.MediaID, req.Position)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, am)
}

// ListMedia обрабатывает GET /artifacts/:id/media.
func (h *ArtifactHandler) ListMedia(c *gin.Context) {
	artifactID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	media, err := h.svc.ListMedia(c.Request.Context(), artifactID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"media": media})
}
