package httpserver

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	domain "github.com/example/file-storage-service/domain/file"
	"github.com/example/file-storage-service/modules/activity"
	"github.com/example/file-storage-service/modules/fileservice"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

// contentTypeByExt maps file extensions to MIME types.
var contentTypeByExt = map[string]string{
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".xml":  "application/xml",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".gzip": "application/gzip",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// FileOperations is the storage surface the handlers drive.
type FileOperations interface {
	Store(ctx context.Context, r io.Reader, originalName string) (*domain.StoredFile, error)
	List(ctx context.Context) ([]domain.StoredFile, error)
	Fetch(ctx context.Context, identifier string) (io.ReadCloser, *domain.StoredFile, error)
	Delete(ctx context.Context, identifier string) error
}

// HealthReporter reports the health of the storage module.
type HealthReporter interface {
	Health(ctx context.Context) mono.HealthStatus
}

var _ FileOperations = (*fileservice.Service)(nil)

// Handlers contains HTTP request handlers for file operations.
type Handlers struct {
	files         FileOperations
	activity      activity.ActivityPort
	health        HealthReporter
	maxUploadSize int64
	logger        types.Logger
}

// NewHandlers creates a new handlers instance. A maxUploadSize of zero or
// less disables the request body limit.
func NewHandlers(files FileOperations, maxUploadSize int64, logger types.Logger) *Handlers {
	return &Handlers{
		files:         files,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// SetActivity sets the port used by the stats endpoint.
func (h *Handlers) SetActivity(port activity.ActivityPort) {
	h.activity = port
}

// SetHealthReporter sets the storage health source.
func (h *Handlers) SetHealthReporter(r HealthReporter) {
	h.health = r
}

// Ping handles liveness requests (GET /ping).
func (h *Handlers) Ping(c *gin.Context) {
	c.String(http.StatusOK, msgServerUp)
}

// HealthCheck handles health check requests (GET /health).
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Service: "file-storage-service"}
	if h.health != nil {
		status := h.health.Health(c.Request.Context())
		if !status.Healthy {
			resp.Status = "unhealthy"
		}
		resp.Storage = status.Details
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// UploadFile handles file upload requests (POST /upload).
// The file part is streamed to storage without buffering the whole body.
func (h *Handlers) UploadFile(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	part, err := filePart(c.Request)
	if err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, MessageResponse{Message: msgTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgNoFile})
		return
	}
	defer part.Close()

	stored, err := h.files.Store(c.Request.Context(), part, part.FileName())
	if err != nil {
		switch {
		case tooLarge(err):
			c.JSON(http.StatusRequestEntityTooLarge, MessageResponse{Message: msgTooLarge})
		case errors.Is(err, fileservice.ErrNoFile):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: msgNoFile})
		case errors.Is(err, fileservice.ErrUploadAborted):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: msgUploadAborted})
		default:
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternal})
		}
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Message:  msgUploaded,
		Filename: stored.Name,
	})
}

// ListFiles handles file listing requests (GET /files).
func (h *Handlers) ListFiles(c *gin.Context) {
	files, err := h.files.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: msgInternal})
		return
	}

	resp := make([]FileResponse, 0, len(files))
	for _, f := range files {
		resp = append(resp, FileResponse{
			Name:       f.Name,
			Size:       f.Size,
			UploadDate: f.UploadDate,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetFile serves a stored file inline (GET /files/:filename, GET /uploads/:filename).
func (h *Handlers) GetFile(c *gin.Context) {
	h.serveFile(c, "inline")
}

// DownloadFile serves a stored file as an attachment (GET /download/:filename).
func (h *Handlers) DownloadFile(c *gin.Context) {
	h.serveFile(c, "attachment")
}

// DeleteFile handles file deletion requests (DELETE /files/:filename).
func (h *Handlers) DeleteFile(c *gin.Context) {
	if err := h.files.Delete(c.Request.Context(), c.Param("filename")); err != nil {
		handleFileServiceError(c, err, msgInternal)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: msgDeleted})
}

// Stats handles activity summary requests (GET /stats?limit=n).
func (h *Handlers) Stats(c *gin.Context) {
	if h.activity == nil {
		c.JSON(http.StatusServiceUnavailable, MessageResponse{Message: msgStatsDown})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	summary, err := h.activity.Summary(c.Request.Context(), limit)
	if err != nil {
		h.logger.Warn("Activity summary failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, MessageResponse{Message: msgStatsDown})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handlers) serveFile(c *gin.Context, disposition string) {
	reader, file, err := h.files.Fetch(c.Request.Context(), c.Param("filename"))
	if err != nil {
		handleFileServiceError(c, err, msgDownloadFailed)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, file.Size, detectContentType(file.Name), reader, map[string]string{
		"Content-Disposition": contentDisposition(disposition, file.Name),
	})

	// Headers are already sent, so a failed copy can only be logged.
	if err := c.Errors.Last(); err != nil {
		h.logger.Error("File transfer interrupted", "name", file.Name, "error", err.Err)
	}
}

// handleFileServiceError writes an appropriate HTTP error response for file service errors.
func handleFileServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, fileservice.ErrInvalidFilename):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: msgInvalidFilename})
	case errors.Is(err, fileservice.ErrFileNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: msgNotFound})
	default:
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: fallback})
	}
}

// filePart advances the multipart stream to the first file part of the
// upload field. Other parts are skipped.
func filePart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fileservice.ErrNoFile
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		part.Close()
	}
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// contentDisposition builds the header value, falling back to an RFC 2231
// encoded filename for non-ASCII names.
func contentDisposition(disposition, name string) string {
	value := mime.FormatMediaType(disposition, map[string]string{"filename": name})
	if value == "" {
		return disposition
	}
	return value
}

// detectContentType determines the content type based on file extension.
func detectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := contentTypeByExt[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}
