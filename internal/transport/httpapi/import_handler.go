package httpapi

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"menuhub/internal/bootstrap/logging"
	"menuhub/internal/domain/importing"
	"menuhub/internal/errs"
	"menuhub/internal/ports"
	"menuhub/internal/usecase/restaurantimport"
)

type ImportHandler struct {
	svc            ImportService
	maxUploadBytes int64
	now            func() time.Time
}

func NewImportHandler(svc ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxUploadBytes: maxUploadBytes, now: time.Now}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

type importResponse struct {
	restaurantimport.Result
	Timestamp string `json:"timestamp"`
}

// Create handles POST /api/imports with a multipart "file" field.
func (h *ImportHandler) Create(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "File too large", "The uploaded file exceeds the size limit", "")
			return
		}
		fail(c, http.StatusBadRequest, "No file provided", `Please provide a JSON file using the "file" parameter`, "")
		return
	}
	if !isJSONUpload(header) {
		fail(c, http.StatusBadRequest, "Invalid file type", "File must be a JSON file", "")
		return
	}

	data, err := readUpload(header)
	if err != nil {
		logging.Error(c.Request.Context(), "read uploaded file failed", slog.Any("err", errs.Loggable(err)))
		fail(c, http.StatusBadRequest, "No file provided", "The uploaded file could not be read", "")
		return
	}

	doc, err := restaurantimport.ParseDocument(data)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON file", "The file contains invalid JSON syntax", err.Error())
		return
	}

	result, err := h.svc.Import(c.Request.Context(), restaurantimport.ImportInput{
		Document:   doc,
		SourceName: header.Filename,
	})
	if err != nil {
		logging.Error(c.Request.Context(), "restaurant import could not start", slog.Any("err", errs.Loggable(err)))
		fail(c, http.StatusInternalServerError, "Import failed", "The import could not be started", "")
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, importResponse{
		Result:    result,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// List handles GET /api/imports?status=&limit=.
func (h *ImportHandler) List(c *gin.Context) {
	input := restaurantimport.ListAuditLogsInput{Status: c.Query("status")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			fail(c, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer", "")
			return
		}
		input.Limit = limit
	}

	items, err := h.svc.ListAuditLogs(c.Request.Context(), input)
	if err != nil {
		h.auditError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": items})
}

func (h *ImportHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "Invalid id", "id must be a positive integer", "")
		return
	}

	item, err := h.svc.GetAuditLog(c.Request.Context(), id)
	if err != nil {
		h.auditError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ImportHandler) Latest(c *gin.Context) {
	item, err := h.svc.LatestAuditLog(c.Request.Context())
	if err != nil {
		h.auditError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ImportHandler) auditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrAuditLogNotFound):
		fail(c, http.StatusNotFound, "Record not found", "", "")
	case errors.Is(err, importing.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, "Invalid status", err.Error(), "")
	default:
		logging.Error(c.Request.Context(), "query import audit logs failed", slog.Any("err", errs.Loggable(err)))
		fail(c, http.StatusInternalServerError, "Internal error", "", "")
	}
}

func fail(c *gin.Context, status int, errText string, message string, details string) {
	c.JSON(status, errorResponse{
		Success: false,
		Error:   errText,
		Message: message,
		Details: details,
	})
}

func isJSONUpload(header *multipart.FileHeader) bool {
	contentType := strings.ToLower(header.Header.Get("Content-Type"))
	if strings.HasPrefix(contentType, "application/json") {
		return true
	}
	return strings.EqualFold(filepath.Ext(header.Filename), ".json")
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errs.Wrap(err, "open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errs.Wrap(err, "read uploaded file")
	}
	return data, nil
}
