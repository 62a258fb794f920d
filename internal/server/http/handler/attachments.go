package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mpavlovs/attachd/internal/attachment"
	"github.com/mpavlovs/attachd/internal/common"
	"github.com/mpavlovs/attachd/internal/logging"
	"github.com/mpavlovs/attachd/internal/server/models"
	"github.com/mpavlovs/attachd/internal/server/repositories/attachments"
	"github.com/mpavlovs/attachd/internal/storage"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidationResponse carries per-field messages for a rejected upload.
type ValidationResponse struct {
	Error  string                  `json:"error"`
	Errors []attachment.FieldError `json:"errors"`
}

// AttachmentResponse is the public metadata shape for one attachment.
type AttachmentResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toResponse(m *models.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          m.ID,
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   m.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// AttachmentHandler exposes the attachment lifecycle over HTTP. The manager
// owns staging, validation and the storage backend; the repository owns the
// metadata rows.
type AttachmentHandler struct {
	repo    attachments.Repository
	manager *attachment.Manager
	logger  logging.Logger
}

func NewAttachmentHandler(repo attachments.Repository, manager *attachment.Manager, logger logging.Logger) *AttachmentHandler {
	return &AttachmentHandler{repo: repo, manager: manager, logger: logger}
}

// Upload accepts one multipart file under the "file" field, runs it through
// the lifecycle and records the metadata row. Constraint violations come
// back as 422 with per-field messages.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fh, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn(ctx, "no file in form", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}

	up, err := attachment.FromMultipart(fh)
	if err != nil {
		h.logger.Error(ctx, "opening multipart file failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to process file"})
		return
	}

	a := &attachment.Attachment{}
	if err := h.manager.Assign(a, up); err != nil {
		h.logger.Error(ctx, "staging upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to process file"})
		return
	}

	if !a.HasStagedData() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty upload"})
		return
	}

	if err := h.manager.Save(ctx, a); err != nil {
		var verrs attachment.ValidationErrors
		if errors.As(err, &verrs) {
			_ = a.Discard()
			c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
				Error:  "validation failed",
				Errors: verrs,
			})
			return
		}
		h.logger.Error(ctx, "persisting upload failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return
	}

	m := &models.Attachment{
		ID:          uuid.New().String(),
		Filename:    a.Filename,
		ContentType: a.ContentType,
		Size:        a.Size,
		StorageKey:  a.StorageKey,
	}
	if err := h.repo.Create(ctx, m); err != nil {
		h.logger.Error(ctx, "creating attachment row failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return
	}

	h.logger.Info(ctx, "attachment stored", "id", m.ID, "key", m.StorageKey, "size", m.Size)
	c.JSON(http.StatusCreated, toResponse(m))
}

// Get returns the metadata row for one attachment.
func (h *AttachmentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	m, err := h.repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attachment not found"})
			return
		}
		h.logger.Error(ctx, "loading attachment failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load attachment"})
		return
	}

	c.JSON(http.StatusOK, toResponse(m))
}

// List returns all attachment rows, most recent first.
func (h *AttachmentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error(ctx, "listing attachments failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list attachments"})
		return
	}

	out := make([]AttachmentResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toResponse(m))
	}
	c.JSON(http.StatusOK, out)
}

// GetContent streams the stored bytes back to the client.
func (h *AttachmentHandler) GetContent(c *gin.Context) {
	ctx := c.Request.Context()

	m, err := h.repo.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attachment not found"})
			return
		}
		h.logger.Error(ctx, "loading attachment failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load attachment"})
		return
	}

	a := &attachment.Attachment{
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		StorageKey:  m.StorageKey,
	}
	rc, err := h.manager.Retrieve(ctx, a)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attachment content not found"})
			return
		}
		h.logger.Error(ctx, "retrieving attachment content failed", "error", err, "key", m.StorageKey)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read attachment"})
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, m.Size, m.ContentType, rc, map[string]string{
		"Content-Disposition": `inline; filename="` + m.Filename + `"`,
	})
}

// Delete removes the stored object, its thumbnails and the metadata row.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	m, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "attachment not found"})
			return
		}
		h.logger.Error(ctx, "loading attachment failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load attachment"})
		return
	}

	a := &attachment.Attachment{
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		StorageKey:  m.StorageKey,
	}
	if err := h.manager.Destroy(ctx, a); err != nil {
		h.logger.Error(ctx, "deleting stored object failed", "error", err, "key", m.StorageKey)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete attachment"})
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
		h.logger.Error(ctx, "deleting attachment row failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to delete attachment"})
		return
	}

	c.Status(http.StatusNoContent)
}
