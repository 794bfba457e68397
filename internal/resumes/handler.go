package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/extract"
	"resume-parser/internal/llm"
	"resume-parser/internal/parselog"
	"resume-parser/internal/shared/metrics"
	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/server/respond"
	"resume-parser/internal/shared/telemetry"
	"resume-parser/internal/shared/util"
)

const (
	// DefaultMaxUploadBytes is the upload ceiling when none is configured.
	DefaultMaxUploadBytes int64 = 10 << 20

	// multipartOverhead leaves room for form boundaries and headers around the file part.
	multipartOverhead int64 = 64 << 10

	retryAfterSeconds = 30
	auditTimeout      = 5 * time.Second
)

// Handler wires HTTP handlers to the resume parse service.
type Handler struct {
	Svc            *Service
	Audit          parselog.Repo
	Model          string
	MaxUploadBytes int64
	ParseTimeout   time.Duration
}

// NewHandler constructs a Handler. audit may be nil.
func NewHandler(svc *Service, audit parselog.Repo) *Handler {
	return &Handler{Svc: svc, Audit: audit, MaxUploadBytes: DefaultMaxUploadBytes}
}

// RegisterRoutes attaches resume routes to the router group. parseMiddleware
// runs in front of the parse endpoint only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, parseMiddleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, parseMiddleware...), h.parseResume)
	rg.POST("/resume/parse", handlers...)
	rg.GET("/resume/parses", h.listParses)
}

func (h *Handler) parseResume(c *gin.Context) {
	maxBytes := h.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusBadRequest, "file_too_large", tooLargeMessage(maxBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []map[string]string{
			{"field": "file", "issue": "missing"},
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "Only PDF files are supported", []map[string]string{
			{"field": "file", "issue": "unsupported_type"},
		})
		return
	}

	data, err := readUpload(fileHeader, maxBytes)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) || isBodyTooLarge(err) {
			respond.Error(c, http.StatusBadRequest, "file_too_large", tooLargeMessage(maxBytes), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	ctx := c.Request.Context()
	if h.ParseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.ParseTimeout)
		defer cancel()
	}

	metrics.IncParseStarted()
	res, err := h.Svc.ParseDetailed(ctx, data)
	metrics.ObserveParseDurationMs(float64(res.Duration.Milliseconds()))
	if err != nil {
		kind := ErrorKind(err)
		metrics.IncParseFailed(kind)
		c.Set(middleware.ErrorKindKey, kind)
	} else {
		metrics.IncParseCompleted()
	}
	h.record(c, fileHeader.Filename, int64(len(data)), res, err)

	if err != nil {
		h.writeParseError(c, err)
		return
	}

	respond.Success(c, res.Resume)
}

func (h *Handler) writeParseError(c *gin.Context, err error) {
	var (
		emptyErr      *EmptyDocumentError
		recoveryErr   *RecoveryError
		validationErr *ValidationError
		completionErr *llm.CompletionError
	)
	switch {
	case errors.As(err, &emptyErr):
		respond.Error(c, http.StatusBadRequest, "empty_document", err.Error(), nil)
	case extract.IsExtractionError(err):
		telemetry.Error("resume.extraction_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "unreadable_document", "failed to read text from the uploaded document", nil)
	case errors.As(err, &recoveryErr):
		respond.Error(c, http.StatusBadRequest, "invalid_model_response", err.Error(), nil)
	case errors.As(err, &validationErr):
		respond.Error(c, http.StatusBadRequest, "schema_mismatch", "parsed resume does not match schema", validationErr.Violations)
	case errors.As(err, &completionErr):
		telemetry.Error("resume.completion_failed", map[string]any{
			"request_id":  middleware.RequestIDFromContext(c),
			"status_code": completionErr.StatusCode,
			"transient":   completionErr.Transient,
			"error":       err,
		})
		if completionErr.Transient {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
			respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "resume parsing is temporarily unavailable, try again later", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "model_error", "resume parsing service returned an error", nil)
	default:
		telemetry.Error("resume.parse_internal", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to parse resume", nil)
	}
}

func (h *Handler) record(c *gin.Context, fileName string, size int64, res Result, parseErr error) {
	if h.Audit == nil {
		return
	}
	entry := parselog.NewEntry()
	entry.RequestID = middleware.RequestIDFromContext(c)
	if name, err := util.SanitizeFileName(fileName); err == nil {
		entry.FileName = name
	}
	entry.FileBytes = size
	entry.TextChars = res.TextChars
	entry.PromptHash = res.PromptHash
	entry.Model = h.Model
	entry.DurationMs = res.Duration.Milliseconds()
	entry.Outcome = parselog.OutcomeSuccess
	if parseErr != nil {
		entry.Outcome = parselog.OutcomeFailure
		entry.ErrorKind = ErrorKind(parseErr)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), auditTimeout)
	defer cancel()
	if err := h.Audit.Create(ctx, entry); err != nil {
		telemetry.Warn("parselog.create_failed", map[string]any{
			"request_id": entry.RequestID,
			"error":      err,
		})
	}
}

func (h *Handler) listParses(c *gin.Context) {
	limit := parselog.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if h.Audit == nil {
		respond.OK(c, []parselog.Entry{})
		return
	}
	entries, err := h.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list parses", nil)
		return
	}
	respond.OK(c, entries)
}

func (h *Handler) maxUploadBytes() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

var errUploadTooLarge = errors.New("upload too large")

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, errUploadTooLarge
	}
	return data, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func tooLargeMessage(maxBytes int64) string {
	if maxBytes%(1<<20) == 0 {
		return fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes>>20)
	}
	return fmt.Sprintf("File too large. Maximum size is %d bytes", maxBytes)
}
