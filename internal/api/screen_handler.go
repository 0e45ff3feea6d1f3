package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/collection"
	"github.com/wedding-planner-api/internal/listview"
	"github.com/wedding-planner-api/internal/media"
	"github.com/wedding-planner-api/internal/service"
)

// facetParamPrefix marks facet filters in the query string (facet.role=Vendor)
const facetParamPrefix = "facet."

// maxBodyBytes caps record bodies sent to add and update
const maxBodyBytes = 1 << 20

// ScreenHandler handles screen endpoints
type ScreenHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewScreenHandler creates a new ScreenHandler
func NewScreenHandler(services *service.Services, log zerolog.Logger) *ScreenHandler {
	return &ScreenHandler{
		services: services,
		log:      log.With().Str("handler", "screens").Logger(),
	}
}

// ListScreens handles GET /v1/screens
func (h *ScreenHandler) ListScreens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"screens": h.services.Screens.List()})
}

// MountScreen handles POST /v1/screens
// Mounts a freshly seeded screen of the requested kind
func (h *ScreenHandler) MountScreen(c *gin.Context) {
	var req struct {
		Kind service.Kind `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}

	scr, err := h.services.Screens.Mount(req.Kind)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, scr.Page())
}

// GetScreen handles GET /v1/screens/:id?search=...&facet.<name>=...
// With no filter parameters the screen's current filters are kept.
func (h *ScreenHandler) GetScreen(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	cr, filtered := criteriaFromQuery(c)
	if !filtered {
		c.JSON(http.StatusOK, scr.Page())
		return
	}

	page, err := scr.Query(cr)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UnmountScreen handles DELETE /v1/screens/:id
func (h *ScreenHandler) UnmountScreen(c *gin.Context) {
	if err := h.services.Screens.Unmount(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetFacet handles PUT /v1/screens/:id/facets/:facet
// Dependent facets (city under province) are reset to All.
func (h *ScreenHandler) SetFacet(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	page, err := scr.SetFacet(c.Param("facet"), req.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ResetFilters handles DELETE /v1/screens/:id/filters
func (h *ScreenHandler) ResetFilters(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, scr.ResetFilters())
}

// AddRecord handles POST /v1/screens/:id/records
func (h *ScreenHandler) AddRecord(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}

	rec, err := scr.Add(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// UpdateRecord handles PATCH /v1/screens/:id/records/:rid
func (h *ScreenHandler) UpdateRecord(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}

	rec, err := scr.Update(c.Param("rid"), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteRecord handles DELETE /v1/screens/:id/records/:rid?confirm=true|false
// Without an answer the prompt is returned with 409.
func (h *ScreenHandler) DeleteRecord(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}
	ctx, ok := withConfirmation(c)
	if !ok {
		return
	}

	deleted, err := scr.Delete(ctx, c.Param("rid"))
	if err != nil {
		if errors.Is(err, listview.ErrConfirmationRequired) {
			c.JSON(http.StatusConflict, gin.H{"error": "confirmation required", "prompt": scr.DeletePrompt()})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ToggleRecord handles POST /v1/screens/:id/records/:rid/toggle
func (h *ScreenHandler) ToggleRecord(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	rec, err := scr.Toggle(c.Param("rid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ToggleFavorite handles POST /v1/screens/:id/favorites/:rid
func (h *ScreenHandler) ToggleFavorite(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	on, err := scr.Favorite(c.Param("rid"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("rid"), "favorite": on})
}

// ResetScreen handles POST /v1/screens/:id/reset?confirm=true|false
// Restores the screen's defaults, clearing progress.
func (h *ScreenHandler) ResetScreen(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}
	ctx, ok := withConfirmation(c)
	if !ok {
		return
	}

	reset, err := scr.Reset(ctx)
	if err != nil {
		if errors.Is(err, listview.ErrConfirmationRequired) {
			c.JSON(http.StatusConflict, gin.H{"error": "confirmation required", "prompt": scr.ResetPrompt()})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": reset, "screen": scr.Page()})
}

// ExportScreen handles GET /v1/screens/:id/export?format=...
// Streams the visible records directly to the response
func (h *ScreenHandler) ExportScreen(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", service.FormatNDJSON)
	if _, ok := service.ContentType(format); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv, xlsx"})
		return
	}

	h.log.Info().
		Str("screen_id", scr.ID()).
		Str("format", format).
		Msg("Starting streaming export")

	if err := h.services.Export.StreamScreen(c.Request.Context(), c.Writer, scr, format); err != nil {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("screen_id", scr.ID()).Msg("Export failed")
	}
}

// ShareScreen handles POST /v1/screens/:id/share?format=...
// Exports the visible records to a file and hands it to the share sheet
func (h *ScreenHandler) ShareScreen(c *gin.Context) {
	scr, ok := h.screen(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", service.FormatCSV)
	if _, ok := service.ContentType(format); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv, xlsx"})
		return
	}

	ref, err := h.services.Media.ShareScreen(c.Request.Context(), scr, format)
	if err != nil {
		if errors.Is(err, media.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": unavailableMessage})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

func (h *ScreenHandler) screen(c *gin.Context) (service.Screen, bool) {
	scr, err := h.services.Screens.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return scr, true
}

// fail maps a screen error to its response
func (h *ScreenHandler) fail(c *gin.Context, err error) {
	var promptErr *listview.PromptError
	if errors.As(err, &promptErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": promptErr.Prompt, "details": promptErr.Errors})
		return
	}

	switch {
	case errors.Is(err, service.ErrScreenNotFound),
		errors.Is(err, service.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownKind),
		errors.Is(err, service.ErrInvalidRecordID),
		errors.Is(err, service.ErrInvalidBody),
		errors.Is(err, listview.ErrUnknownFacet),
		errors.Is(err, listview.ErrFacetValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReadOnly),
		errors.Is(err, service.ErrNoFavorites),
		errors.Is(err, service.ErrNoReset),
		errors.Is(err, listview.ErrNoToggle):
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTooManyScreens):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Screen request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// criteriaFromQuery reads search and facet.* parameters. It reports false
// when none were given.
func criteriaFromQuery(c *gin.Context) (collection.Criteria, bool) {
	query := c.Request.URL.Query()

	var cr collection.Criteria
	filtered := false
	if search, ok := query["search"]; ok {
		cr.Search = search[0]
		filtered = true
	}
	for key, values := range query {
		name, ok := strings.CutPrefix(key, facetParamPrefix)
		if !ok || name == "" {
			continue
		}
		cr = cr.WithFacet(name, values[0])
		filtered = true
	}
	return cr, filtered
}

// withConfirmation attaches the confirm query parameter to the request
// context. A malformed value is answered with 400.
func withConfirmation(c *gin.Context) (context.Context, bool) {
	ctx := c.Request.Context()

	raw, present := c.GetQuery("confirm")
	if !present {
		return ctx, true
	}
	yes, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirm must be true or false"})
		return nil, false
	}
	return listview.WithAnswer(ctx, yes), true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	return body, true
}
