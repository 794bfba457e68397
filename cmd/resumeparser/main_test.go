package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/extract/extracttest"
	"resume-parser/internal/llm"
)

type fixedCompleter string

func (f fixedCompleter) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	return string(f), nil
}

const fixedReply = "```json\n{\"personalInfo\":{\"name\":\"John Doe\",\"email\":\"john@example.com\"},\"workExperience\":[{\"id\":\"w1\",\"company\":\"Acme\",\"position\":\"Engineer\",\"startDate\":\"2020-01\",\"endDate\":\"\",\"current\":true}],\"education\":[],\"projects\":[],\"skills\":[]}\n```"

func setupCLI(t *testing.T, reply string) string {
	t.Helper()
	t.Setenv("HF_TOKEN", "test-key")
	t.Setenv("SCHEMA_CHECK", "off")
	prev := buildOptions
	buildOptions = []bootstrap.Option{bootstrap.WithCompleter(fixedCompleter(reply))}
	t.Cleanup(func() { buildOptions = prev })

	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, extracttest.BuildPDF("John Doe", "Engineer"), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseCommandPrintsJSON(t *testing.T) {
	path := setupCLI(t, fixedReply)

	out, err := execute(t, "parse", path)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload), out)
	assert.Equal(t, "John Doe", payload["personalInfo"].(map[string]any)["name"])
}

func TestParseCommandSummary(t *testing.T) {
	path := setupCLI(t, fixedReply)

	out, err := execute(t, "parse", "--summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       John Doe")
	assert.Contains(t, out, "Engineer, Acme (2020-01 to present)")
}

func TestParseCommandWritesFile(t *testing.T) {
	path := setupCLI(t, fixedReply)
	outFile := filepath.Join(t.TempDir(), "resume.json")

	_, err := execute(t, "parse", "--compact", "-o", outFile, path)
	require.NoError(t, err)

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"name":"John Doe"`)
}

func TestParseCommandErrors(t *testing.T) {
	path := setupCLI(t, "not json at all")

	_, err := execute(t, "parse")
	assert.Error(t, err)

	_, err = execute(t, "parse", "resume.docx")
	assert.ErrorContains(t, err, "only PDF files")

	_, err = execute(t, "parse", path)
	assert.ErrorContains(t, err, "no JSON object found")
}

func TestMigrateRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_URL")
}
