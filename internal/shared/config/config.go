package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultLLMBaseURL = "https://router.huggingface.co/v1"
	DefaultLLMModel   = "meta-llama/Llama-3.1-8B-Instruct"

	SchemaCheckOff    = "off"
	SchemaCheckWarn   = "warn"
	SchemaCheckStrict = "strict"
)

// Config holds application configuration.
type Config struct {
	Port            string        `validate:"required"`
	Env             string        `validate:"oneof=dev local staging production"`
	CORSAllowOrigin []string      `validate:"dive,required"`
	LLMAPIKey       string        `validate:"required"`
	LLMBaseURL      string        `validate:"required,url"`
	LLMModel        string        `validate:"required"`
	LLMTimeout      time.Duration `validate:"gte=0"`
	ParseTimeout    time.Duration `validate:"gte=0"`
	MaxUploadBytes  int64         `validate:"gt=0"`
	SchemaCheck     string        `validate:"oneof=off warn strict"`
	EnsureEntryIDs  bool
	DatabaseURL     string
	RateLimitRPS    float64 `validate:"gte=0"`
	RateLimitBurst  int     `validate:"gte=0"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience; real env wins.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	apiKey := getEnv("HF_TOKEN", "")
	if apiKey == "" {
		apiKey = getEnv("LLM_API_KEY", "")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LLMAPIKey:       apiKey,
		LLMBaseURL:      strings.TrimRight(getEnv("LLM_BASE_URL", DefaultLLMBaseURL), "/"),
		LLMModel:        getEnv("LLM_MODEL", DefaultLLMModel),
		LLMTimeout:      getSeconds("LLM_TIMEOUT_SECONDS", 120*time.Second),
		ParseTimeout:    getDuration("PARSE_TIMEOUT", 180*time.Second),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", 10<<20),
		SchemaCheck:     normalizeSchemaCheck(getEnv("SCHEMA_CHECK", SchemaCheckWarn)),
		EnsureEntryIDs:  getBool("ENSURE_ENTRY_IDS", false),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RateLimitRPS:    getFloat("RATE_LIMIT_RPS", 0.5),
		RateLimitBurst:  int(getInt64("RATE_LIMIT_BURST", 5)),
	}
}

// Validate checks field constraints declared in struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// IsDevLike reports whether the environment tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getSeconds(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return time.Duration(parsed) * time.Second
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func getInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeSchemaCheck(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SchemaCheckOff, "false", "0":
		return SchemaCheckOff
	case SchemaCheckStrict:
		return SchemaCheckStrict
	default:
		return SchemaCheckWarn
	}
}
