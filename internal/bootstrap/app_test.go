package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser/internal/llm"
	"resume-parser/internal/parselog"
	"resume-parser/internal/resumes"
	"resume-parser/internal/shared/config"
)

type fixedCompleter string

func (f fixedCompleter) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	return string(f), nil
}

func testConfig() config.Config {
	return config.Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LLMAPIKey:       "test-key",
		LLMBaseURL:      config.DefaultLLMBaseURL,
		LLMModel:        config.DefaultLLMModel,
		MaxUploadBytes:  10 << 20,
		SchemaCheck:     config.SchemaCheckStrict,
		RateLimitRPS:    1,
		RateLimitBurst:  1,
	}
}

func TestBuildWithoutDatabaseUsesMemoryAudit(t *testing.T) {
	app, err := Build(context.Background(), testConfig(), WithCompleter(fixedCompleter(`{}`)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.DB)
	assert.IsType(t, &parselog.MemoryRepo{}, app.Audit)
	assert.Equal(t, resumes.SchemaStrict, app.ResumeService.SchemaMode)
	assert.NotNil(t, app.ResumeService.Schema)

	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBuildServiceRequiresCredential(t *testing.T) {
	cfg := testConfig()
	cfg.LLMAPIKey = ""
	_, err := BuildService(cfg)
	assert.Error(t, err)
}

func TestBuildServiceSchemaOff(t *testing.T) {
	cfg := testConfig()
	cfg.SchemaCheck = config.SchemaCheckOff
	app, err := BuildService(cfg)
	require.NoError(t, err)
	assert.Nil(t, app.ResumeService.Schema)
}
