package resumes

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-parser/internal/llm"
	"resume-parser/internal/shared/telemetry"
)

// Extractor turns document bytes into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Service runs the parse pipeline: extract, prompt, complete, recover.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	Extractor Extractor
	LLM       llm.Completer
	Schema    *SchemaChecker
	// SchemaMode is one of SchemaOff, SchemaWarn or SchemaStrict; empty means SchemaOff.
	SchemaMode string
	EnsureIDs  bool
}

// Result carries the parsed resume together with metadata about the run.
// Metadata fields are filled as far as the pipeline got, also on failure.
type Result struct {
	Resume     Resume
	TextChars  int
	PromptHash string
	IDsFilled  int
	Violations []string
	Duration   time.Duration
}

var ErrNotConfigured = errors.New("resume service not configured")

// Parse returns the structured resume for a PDF document.
func (s *Service) Parse(ctx context.Context, pdf []byte) (Resume, error) {
	res, err := s.ParseDetailed(ctx, pdf)
	if err != nil {
		return nil, err
	}
	return res.Resume, nil
}

// ParseDetailed is Parse with run metadata for logging and auditing.
func (s *Service) ParseDetailed(ctx context.Context, pdf []byte) (Result, error) {
	started := time.Now()
	res, err := s.run(ctx, pdf)
	res.Duration = time.Since(started)

	fields := map[string]any{
		"file_bytes":  len(pdf),
		"text_chars":  res.TextChars,
		"prompt_hash": res.PromptHash,
		"duration_ms": res.Duration.Milliseconds(),
	}
	if err != nil {
		fields["error_kind"] = ErrorKind(err)
		fields["error"] = err
		telemetry.Warn("resume.parse", fields)
		return res, err
	}
	if res.IDsFilled > 0 {
		fields["ids_filled"] = res.IDsFilled
	}
	telemetry.Info("resume.parse", fields)
	return res, nil
}

func (s *Service) run(ctx context.Context, pdf []byte) (Result, error) {
	var res Result
	if s == nil || s.Extractor == nil || s.LLM == nil {
		return res, ErrNotConfigured
	}

	text, err := s.Extractor.ExtractText(ctx, pdf)
	if err != nil {
		return res, err
	}
	res.TextChars = len(text)
	if strings.TrimSpace(text) == "" {
		return res, &EmptyDocumentError{}
	}

	prompt := llm.BuildResumePrompt(text)
	res.PromptHash = prompt.Hash()

	reply, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		return res, err
	}

	resume, err := Recover(reply)
	if err != nil {
		return res, err
	}

	if s.EnsureIDs {
		res.IDsFilled = EnsureEntryIDs(resume)
	}

	if err := s.checkSchema(resume, &res); err != nil {
		return res, err
	}

	res.Resume = resume
	return res, nil
}

func (s *Service) checkSchema(resume Resume, res *Result) error {
	mode := s.SchemaMode
	if mode == "" || mode == SchemaOff || s.Schema == nil {
		return nil
	}
	err := s.Schema.Check(resume)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		res.Violations = ve.Violations
	}
	if mode == SchemaStrict {
		return err
	}
	telemetry.Warn("resume.schema_mismatch", map[string]any{
		"prompt_hash": res.PromptHash,
		"violations":  res.Violations,
		"error":       err,
	})
	return nil
}
