package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"talentai/internal/analysis"
	"talentai/internal/audit"
	"talentai/internal/extract"
	"talentai/internal/llm"
	"talentai/internal/llm/gemini"
	"talentai/internal/llm/openai"
	"talentai/internal/ocr"
	"talentai/internal/prompt"
	"talentai/internal/services/health"
	"talentai/internal/shared/config"
	"talentai/internal/shared/server"
	"talentai/internal/shared/telemetry"
)

// App holds the process-wide dependencies built once at start.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	Analysis *analysis.Service
	Audit    audit.Store

	closers []io.Closer
}

// OCREngine is an ocr.Engine the process owns and must release.
type OCREngine interface {
	ocr.Engine
	io.Closer
}

// Overridable in tests; the real engines need native libraries.
var (
	newOCREngine = func(cfg config.Config) (OCREngine, error) {
		return ocr.NewTesseract(cfg.OCRLanguages...)
	}
	newRasterizer = func(cfg config.Config) ocr.Rasterizer {
		return ocr.NewFitz(cfg.OCRPDFDPI)
	}
	openAudit = audit.Open
)

// Build validates cfg and wires every dependency. Invalid configuration fails
// here, before anything listens.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	telemetry.SetDebug(cfg.Env == "dev" || cfg.Debug)

	builder, err := prompt.New(prompt.Language(cfg.PromptLanguage))
	if err != nil {
		return nil, err
	}

	client, err := buildLLM(ctx, cfg, builder.System())
	if err != nil {
		return nil, err
	}

	engine, err := newOCREngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("ocr engine: %w", err)
	}
	app := &App{Config: cfg, closers: []io.Closer{engine}}

	store, err := openAudit(ctx, cfg.AuditStoreURL, cfg.AuditDatabase)
	if err != nil {
		_ = app.Close(ctx)
		return nil, fmt.Errorf("audit store: %w", err)
	}
	app.Audit = store

	app.Analysis = &analysis.Service{
		Extractor:   extract.New(engine, newRasterizer(cfg), cfg.OCRMaxPages),
		LLM:         client,
		Prompts:     builder,
		Audit:       store,
		Concurrency: cfg.AnalysisConcurrency,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: analysis.NewHandler(app.Analysis, cfg.MaxUploadBytes),
		Health:          health.NewService(map[string]health.Checker{"audit": store}),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"llm_provider": cfg.LLMProvider,
		"llm_model":    cfg.LLMModel,
		"language":     cfg.PromptLanguage,
		"concurrency":  cfg.AnalysisConcurrency,
	})
	return app, nil
}

func buildLLM(ctx context.Context, cfg config.Config, system string) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:         cfg.LLMAPIKey,
			Model:          cfg.LLMModel,
			System:         system,
			MaxPromptChars: cfg.LLMMaxPromptChars,
		})
	default:
		return openai.NewClient(openai.Config{
			APIURL:         cfg.LLMAPIURL,
			APIKey:         cfg.LLMAPIKey,
			Model:          cfg.LLMModel,
			System:         system,
			Timeout:        cfg.LLMTimeout,
			MaxPromptChars: cfg.LLMMaxPromptChars,
		})
	}
}

// Close releases the audit store and OCR engine.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Audit != nil {
		errs = append(errs, a.Audit.Close(ctx))
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
