package resumes

import (
	"context"
	"errors"
	"strings"

	"resume-parser/internal/extract"
	"resume-parser/internal/llm"
)

// Recovery failure reasons.
const (
	ReasonEmptyReply  = "empty reply"
	ReasonNoObject    = "no JSON object found"
	ReasonInvalidJSON = "invalid JSON"
)

// Error kinds used for metrics labels and audit records.
const (
	KindExtraction    = "extraction"
	KindEmptyDocument = "empty_document"
	KindCompletion    = "completion"
	KindRecovery      = "recovery"
	KindValidation    = "validation"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// RecoveryError reports a model reply that did not yield a JSON object.
type RecoveryError struct {
	Reason string
	Cause  error
}

func (e *RecoveryError) Error() string {
	msg := "failed to parse LLM response as JSON: " + e.Reason
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RecoveryError) Unwrap() error {
	return e.Cause
}

// EmptyDocumentError reports a document whose extracted text is blank.
type EmptyDocumentError struct{}

func (e *EmptyDocumentError) Error() string {
	return "could not extract text from PDF"
}

// ValidationError lists schema violations found in strict mode.
type ValidationError struct {
	Violations []string
	Cause      error
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "parsed resume does not match schema"
	}
	return "parsed resume does not match schema: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ErrorKind classifies err into one of the Kind constants. A nil error yields "".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		emptyErr      *EmptyDocumentError
		recoveryErr   *RecoveryError
		validationErr *ValidationError
		completionErr *llm.CompletionError
	)
	switch {
	case errors.As(err, &emptyErr):
		return KindEmptyDocument
	case errors.As(err, &completionErr):
		return KindCompletion
	case errors.As(err, &recoveryErr):
		return KindRecovery
	case errors.As(err, &validationErr):
		return KindValidation
	case extract.IsExtractionError(err):
		return KindExtraction
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
