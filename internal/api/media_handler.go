package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/models"
	"github.com/wedding-planner-api/internal/service"
)

const unavailableMessage = "Sharing is not available on this device"

// MediaHandler handles file picker and share sheet endpoints
type MediaHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(services *service.Services, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		services: services,
		log:      log.With().Str("handler", "media").Logger(),
	}
}

// Pick handles POST /v1/media/pick
// A dismissed picker is not an error; the response says so.
func (h *MediaHandler) Pick(c *gin.Context) {
	var req media.PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ref, err := h.services.Media.Pick(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"cancelled": false, "file": ref, "size_mb": ref.SizeMB()})
	case errors.Is(err, media.ErrCancelled):
		c.JSON(http.StatusOK, gin.H{"cancelled": true})
	case errors.Is(err, media.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, media.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Pick failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// Share handles POST /v1/media/share
func (h *MediaHandler) Share(c *gin.Context) {
	var req struct {
		File    models.FileRef     `json:"file"`
		Options media.ShareOptions `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.File.URI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file.uri is required"})
		return
	}

	ref, err := h.services.Media.Share(c.Request.Context(), req.File, req.Options)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, ref)
	case errors.Is(err, media.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
	case errors.Is(err, media.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Share failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
