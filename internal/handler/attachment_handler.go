package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecthub/internal/service"
)

// maxUploadSize caps attachment uploads at 20 MiB.
const maxUploadSize = 20 << 20

type AttachmentHandler struct {
	attachments *service.AttachmentService
	logger      *zap.Logger
}

func NewAttachmentHandler(attachments *service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, logger: logger}
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	a, err := h.attachments.Upload(c.Request.Context(), userID, taskID, fileHeader.Filename, f)
	if err != nil {
		h.logger.Warn("Attachment upload failed",
			zap.Int64("task_id", taskID),
			zap.String("file_name", fileHeader.Filename),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AttachmentHandler) ListByTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachments, err := h.attachments.ListByTask(c.Request.Context(), userID, taskID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	a, rc, err := h.attachments.Download(c.Request.Context(), userID, attachmentID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	c.Header("Content-Length", strconv.FormatInt(a.Size, 10))
	c.DataFromReader(http.StatusOK, a.Size, "application/octet-stream", rc, nil)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), userID, attachmentID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
