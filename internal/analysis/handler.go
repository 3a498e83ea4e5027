package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentai/internal/extract"
	"talentai/internal/llm"
	"talentai/internal/shared/server/middleware"
	"talentai/internal/shared/server/respond"
	"talentai/internal/shared/util"
)

// DefaultMaxUploadBytes caps the whole multipart body when unset.
const DefaultMaxUploadBytes int64 = 20 << 20

// Analyzer is the orchestrator contract the handler depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Result, error)
}

// Handler exposes Analyze over multipart HTTP.
type Handler struct {
	Svc            Analyzer
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc Analyzer, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the versioned analyze route to rg.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.POST("/analyze", h.Analyze)
}

// Analyze handles one multipart form: files, query, request_id, user_id.
func (h *Handler) Analyze(c *gin.Context) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("upload exceeds %d MiB", limit>>20), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form is required", nil)
		return
	}
	defer form.RemoveAll()

	requestID := strings.TrimSpace(formValue(form, "request_id"))
	userID := strings.TrimSpace(formValue(form, "user_id"))
	query := formValue(form, "query")

	var issues []map[string]string
	if requestID == "" {
		issues = append(issues, map[string]string{"field": "request_id", "issue": "required"})
	}
	if userID == "" {
		issues = append(issues, map[string]string{"field": "user_id", "issue": "required"})
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		issues = append(issues, map[string]string{"field": "files", "issue": "required"})
	}
	for _, fh := range headers {
		if !extract.Supported(fh.Filename) {
			issues = append(issues, map[string]string{"field": "files", "issue": "unsupported_type", "file": fh.Filename})
		}
	}
	if len(issues) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid analyze request", issues)
		return
	}

	middleware.SetUserID(c, userID)
	c.Set("analysisMode", string(ModeFor(query)))
	c.Set("fileCount", len(headers))

	files, err := readFiles(headers)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), Request{
		Files:     files,
		Query:     query,
		RequestID: requestID,
		UserID:    userID,
	})
	if err != nil {
		status, code, message := classify(err)
		respond.Error(c, status, code, message, nil)
		return
	}

	respond.OK(c, result)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func readFiles(headers []*multipart.FileHeader) ([]ResumeFile, error) {
	files := make([]ResumeFile, 0, len(headers))
	for _, fh := range headers {
		name, err := util.SanitizeFileName(fh.Filename)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", fh.Filename, err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, ResumeFile{Data: data, Filename: name})
	}
	return files, nil
}

// classify maps orchestrator errors to status, error code and client message.
func classify(err error) (int, string, string) {
	var (
		extractErr   *extract.Error
		transportErr *llm.TransportError
	)
	switch {
	case errors.Is(err, ErrNoFiles):
		return http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, llm.ErrPromptTooLarge):
		return http.StatusRequestEntityTooLarge, "prompt_too_large", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "analysis timed out"
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity, "extraction_error", err.Error()
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, "llm_error", "language model request failed"
	default:
		return http.StatusInternalServerError, "internal_error", "analysis failed"
	}
}
