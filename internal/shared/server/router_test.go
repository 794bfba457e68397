package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resume-parser/internal/extract"
	"resume-parser/internal/extract/extracttest"
	"resume-parser/internal/llm"
	"resume-parser/internal/resumes"
	"resume-parser/internal/shared/config"
)

type echoCompleter struct{}

func (echoCompleter) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	return `{"personalInfo":{"name":"John Doe"}}`, nil
}

func newTestEngine(burst int) http.Handler {
	cfg := config.Config{
		Env:             "production",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		RateLimitRPS:    0.001,
		RateLimitBurst:  burst,
	}
	svc := &resumes.Service{Extractor: extract.PDFExtractor{}, LLM: echoCompleter{}}
	return NewRouter(RouterDeps{
		Config:        cfg,
		ResumeHandler: resumes.NewHandler(svc, nil),
	})
}

func parseRequest(t *testing.T) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "resume.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(extracttest.BuildPDF("John Doe"))
	_ = writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/parse", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestRouterHealthAndMetrics(t *testing.T) {
	engine := newTestEngine(5)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}

	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "parse_started_total") {
		t.Fatalf("unexpected metrics response %d %s", rr.Code, rr.Body.String())
	}
}

func TestRouterParseIsRateLimited(t *testing.T) {
	engine := newTestEngine(1)

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, parseRequest(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected first parse to succeed, got %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, parseRequest(t))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second parse to be limited, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/resume/parses", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected listing to bypass parse limiter, got %d", rr.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestEngine(1).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
