package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLLMAPIURL     = "https://api.groq.com/openai/v1/chat/completions"
	DefaultLLMModel      = "llama3-70b-8192"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultAuditStoreURL = "mongodb://mongo:27017"
	DefaultAuditDatabase = "talentai"
)

// Config holds application configuration. It is resolved once at process start.
type Config struct {
	Port            string
	Env             string
	Debug           bool
	CORSAllowOrigin []string

	LLMProvider       string
	LLMAPIURL         string
	LLMAPIKey         string
	LLMModel          string
	LLMTimeout        time.Duration
	LLMMaxPromptChars int

	PromptLanguage string

	OCRLanguages []string
	OCRPDFDPI    float64
	OCRMaxPages  int

	AnalysisConcurrency int
	MaxUploadBytes      int64
	RateLimitPerMinute  int

	AuditStoreURL string
	AuditDatabase string
}

// Load reads configuration from environment variables with documented defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "openai"))
	defaultModel := DefaultLLMModel
	if provider == "gemini" {
		defaultModel = DefaultGeminiModel
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		Debug:           getEnvBool("LOG_DEBUG", false),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8501")),

		LLMProvider:       provider,
		LLMAPIURL:         getEnv("LLM_API_URL", DefaultLLMAPIURL),
		LLMAPIKey:         firstEnv("LLM_API_KEY", "GROQ_API_KEY", "GEMINI_API_KEY"),
		LLMModel:          getEnv("LLM_MODEL", getEnv("MODEL", defaultModel)),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 600)) * time.Second,
		LLMMaxPromptChars: getEnvInt("LLM_MAX_PROMPT_CHARS", 0),

		PromptLanguage: strings.ToLower(getEnv("PROMPT_LANGUAGE", "pt")),

		OCRLanguages: splitAndTrim(getEnv("OCR_LANGUAGES", "por,eng")),
		OCRPDFDPI:    float64(getEnvInt("OCR_PDF_DPI", 200)),
		OCRMaxPages:  getEnvInt("OCR_MAX_PAGES", 0),

		AnalysisConcurrency: getEnvInt("ANALYSIS_CONCURRENCY", 4),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		AuditStoreURL: getEnv("AUDIT_STORE_URL", getEnv("MONGO_URI", DefaultAuditStoreURL)),
		AuditDatabase: getEnv("AUDIT_DATABASE", DefaultAuditDatabase),
	}
}

// Validate reports every missing or invalid required field at once.
func (c Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case "openai":
		if strings.TrimSpace(c.LLMAPIURL) == "" {
			errs = append(errs, errors.New("LLM_API_URL is required"))
		}
	case "gemini":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not supported", c.LLMProvider))
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		errs = append(errs, errors.New("LLM_API_KEY is required"))
	}
	if strings.TrimSpace(c.LLMModel) == "" {
		errs = append(errs, errors.New("LLM_MODEL is required"))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT_SECONDS must be positive"))
	}
	if c.LLMMaxPromptChars < 0 {
		errs = append(errs, errors.New("LLM_MAX_PROMPT_CHARS must not be negative"))
	}
	switch c.PromptLanguage {
	case "pt", "en":
	default:
		errs = append(errs, fmt.Errorf("PROMPT_LANGUAGE %q is not supported", c.PromptLanguage))
	}
	if len(c.OCRLanguages) == 0 {
		errs = append(errs, errors.New("OCR_LANGUAGES is required"))
	}
	if c.AnalysisConcurrency <= 0 {
		errs = append(errs, errors.New("ANALYSIS_CONCURRENCY must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	if strings.TrimSpace(c.AuditStoreURL) == "" {
		errs = append(errs, errors.New("AUDIT_STORE_URL is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
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
	default:
		return "dev"
	}
}
