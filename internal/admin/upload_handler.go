package admin

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/zeynale/menubot/core/logger"
	"github.com/zeynale/menubot/internal/models"
)

const maxUploadBytes = 20 << 20

// UploadHandler stores dashboard attachments on local disk and reports the
// public URL plus the detected kind.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

// Upload handles POST /api/upload.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	// Magic bytes decide the kind; the client-sent content type is ignored.
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	kind := models.AttachmentFile
	if match, err := filetype.Match(head[:n]); err == nil && match != filetype.Unknown {
		if strings.HasPrefix(match.MIME.Value, "image/") {
			kind = models.AttachmentImage
		}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot rewind file"})
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	name := uuid.New().String() + sanitizeExt(file.Filename)
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Info(c.Request.Context(), "admin", "upload.saved",
		slog.String("name", name),
		slog.String("kind", kind),
		slog.Int64("size", file.Size),
	)
	c.JSON(http.StatusCreated, gin.H{
		"url":  "/uploads/" + name,
		"name": file.Filename,
		"type": kind,
	})
}

// sanitizeExt keeps only a short alphanumeric extension from the original
// name. Everything else is dropped, the stored name is the uuid.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
