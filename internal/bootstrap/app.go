package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser/internal/extract"
	"resume-parser/internal/llm"
	"resume-parser/internal/llm/openai"
	"resume-parser/internal/parselog"
	"resume-parser/internal/resumes"
	"resume-parser/internal/services/health"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/server"
	"resume-parser/internal/shared/server/middleware"
	"resume-parser/internal/shared/storage/db"
	"resume-parser/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Audit         parselog.Repo
	LLM           llm.Completer
	ResumeService *resumes.Service
	ResumeHandler *resumes.Handler
	Health        *health.Service
}

// Option overrides a dependency before wiring, mostly for tests.
type Option func(*App)

// WithCompleter replaces the completion client built from config.
func WithCompleter(c llm.Completer) Option {
	return func(a *App) { a.LLM = c }
}

// BuildService wires the parse pipeline only. The CLI uses it without a server or database.
func BuildService(cfg config.Config, opts ...Option) (*App, error) {
	app := &App{Config: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.LLM == nil {
		client, err := openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel,
			openai.WithBaseURL(cfg.LLMBaseURL),
			openai.WithTimeout(cfg.LLMTimeout),
		)
		if err != nil {
			return nil, err
		}
		app.LLM = client
	}

	svc := &resumes.Service{
		Extractor:  extract.PDFExtractor{},
		LLM:        app.LLM,
		SchemaMode: resumes.NormalizeSchemaMode(cfg.SchemaCheck),
		EnsureIDs:  cfg.EnsureEntryIDs,
	}
	if svc.SchemaMode != resumes.SchemaOff {
		checker, err := resumes.NewSchemaChecker()
		if err != nil {
			return nil, fmt.Errorf("schema checker: %w", err)
		}
		svc.Schema = checker
	}
	app.ResumeService = svc
	return app, nil
}

// Build prepares every dependency of the HTTP server and its router.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	app, err := BuildService(cfg, opts...)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.Audit = &parselog.PGRepo{DB: sqlDB}
	} else {
		app.Audit = parselog.NewMemoryRepo(0)
	}

	handler := resumes.NewHandler(app.ResumeService, app.Audit)
	handler.Model = cfg.LLMModel
	handler.MaxUploadBytes = cfg.MaxUploadBytes
	handler.ParseTimeout = cfg.ParseTimeout
	app.ResumeHandler = handler
	app.Health = health.NewService(sqlDB, cfg.LLMModel)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		ResumeHandler: handler,
		Health:        app.Health,
		Limiter:       middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.audit_memory", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.audit_memory", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}
