package resumes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema check modes.
const (
	SchemaOff    = "off"
	SchemaWarn   = "warn"
	SchemaStrict = "strict"
)

const schemaURL = "resume.schema.json"

//go:embed schema/resume.schema.json
var resumeSchema []byte

// SchemaChecker validates recovered resumes against the embedded JSON Schema.
type SchemaChecker struct {
	schema *jsonschema.Schema
}

// NewSchemaChecker compiles the embedded resume schema.
func NewSchemaChecker() (*SchemaChecker, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(resumeSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaChecker{schema: schema}, nil
}

// Check returns a *ValidationError listing every violation, or nil.
func (s *SchemaChecker) Check(r Resume) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("unmarshal resume: %w", err)
	}

	err = s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Violations: []string{err.Error()}, Cause: err}
	}
	return &ValidationError{Violations: violations(ve), Cause: err}
}

func violations(ve *jsonschema.ValidationError) []string {
	var out []string
	for _, be := range ve.BasicOutput().Errors {
		if be.Error == "" || strings.HasPrefix(be.Error, "doesn't validate with") {
			continue
		}
		loc := be.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, loc+": "+be.Error)
	}
	if len(out) == 0 {
		out = append(out, ve.Error())
	}
	return out
}

// NormalizeSchemaMode maps unknown modes to SchemaWarn.
func NormalizeSchemaMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case SchemaOff:
		return SchemaOff
	case SchemaStrict:
		return SchemaStrict
	default:
		return SchemaWarn
	}
}
