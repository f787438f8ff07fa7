package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"notevault/internal/auth"
	dom "notevault/internal/domain"
	"notevault/internal/dto"
	"notevault/internal/service"

	"github.com/gin-gonic/gin"
)

// previewLength is how much note content a list item carries before the
// ellipsis marker.
const previewLength = 200

// NoteHandler handles note CRUD for the authenticated owner.
type NoteHandler struct {
	svc *service.NoteService
}

// NewNoteHandler returns a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.NoteRequest  true  "Note body"
// @Success      200   {object}  dto.NoteResponse
// @Failure      400   {object}  map[string]string
// @Router       /notes/create [post]
func (h *NoteHandler) Create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.Create(c.Request.Context(), user.ID, req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, noteToResponse(n))
}

// List godoc
// @Summary      List the owner's notes as previews
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ListNotesResponse
// @Failure      500  {object}  map[string]string
// @Router       /notes/all [get]
func (h *NoteHandler) List(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	list, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ListNotesResponse{Items: notesToPreviews(list)})
}

// GetByID godoc
// @Summary      Get a note by ID
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  dto.NoteResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/get/{id} [get]
func (h *NoteHandler) GetByID(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		respondNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(n))
}

// Update godoc
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int              true  "Note ID"
// @Param        body  body  dto.NoteRequest  true  "New title and content"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/update/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.svc.Update(c.Request.Context(), user.ID, id, req.Title, req.Content); err != nil {
		respondNoteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Security     BearerAuth
// @Param        id   path  int  true  "Note ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notes/delete/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondNoteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your note"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func noteToResponse(n dom.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func notesToPreviews(list []dom.Note) []dto.NotePreviewResponse {
	out := make([]dto.NotePreviewResponse, len(list))
	for i, n := range list {
		out[i] = dto.NotePreviewResponse{
			ID:        n.ID,
			Title:     n.Title,
			Preview:   previewContent(n.Content),
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

// previewContent cuts content for list views: up to previewLength runes
// unchanged, anything longer is truncated with an ellipsis marker.
func previewContent(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
