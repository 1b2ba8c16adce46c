package resumes

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/shared/server/respond"
)

// multipart framing on top of the file itself
const formOverheadBytes = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.POST("/resumes/upload", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/download", h.download)
	rg.DELETE("/resumes/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+formOverheadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", ErrTooLarge.Error(), map[string]any{"maxBytes": MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "invalid_request", "multipart field \"resume\" is required", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", ErrTooLarge.Error(), map[string]any{"maxBytes": MaxUploadBytes})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "unable to read file", nil)
		return
	}

	result, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		var stageErr *StageError
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error(), map[string]any{"maxBytes": MaxUploadBytes})
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_media_type", ErrUnsupportedType.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		case errors.As(err, &stageErr):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store resume", map[string]any{"stage": stageErr.Stage})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload resume", nil)
		}
		return
	}

	c.Set(middleware.ResumeIDKey, result.Resume.ID)
	c.Set(middleware.UploadStageKey, string(result.Resume.Status))
	respond.Created(c, toUploadResponse(result))
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	out := make([]ResumeResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toResponse(r))
	}
	respond.OK(c, gin.H{"count": len(out), "resumes": out})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	rec, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	respond.OK(c, toDetailResponse(rec))
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		h.lookupError(c, err)
		return
	}
	respond.OK(c, gin.H{"id": id, "deleted": true})
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ResumeIDKey, id)
	dl, err := h.Svc.Download(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		h.lookupError(c, err)
		return
	}
	if dl.Body == nil {
		respond.OK(c, downloadResponse{URL: dl.URL, ExpiresAt: dl.ExpiresAt, FileName: dl.FileName})
		return
	}
	defer dl.Body.Close()
	c.DataFromReader(http.StatusOK, dl.SizeBytes, dl.MimeType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", dl.FileName),
	})
}

func (h *Handler) lookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume", nil)
}
