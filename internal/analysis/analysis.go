// Package analysis turns a batch of resume files into either per-resume
// summaries or a single comparative answer.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"talentai/internal/audit"
	"talentai/internal/llm"
	"talentai/internal/prompt"
	"talentai/internal/shared/metrics"
	"talentai/internal/shared/telemetry"
)

// DefaultConcurrency bounds parallel extraction and summarize calls when unset.
const DefaultConcurrency = 4

// ErrNoFiles is returned for an empty batch.
var ErrNoFiles = errors.New("at least one resume file is required")

// Mode selects how a request is answered.
type Mode string

const (
	ModeSummarize Mode = "summarize"
	ModeCompare   Mode = "compare"
)

// ModeFor returns the mode implied by query. Blank queries summarize.
func ModeFor(query string) Mode {
	if strings.TrimSpace(query) == "" {
		return ModeSummarize
	}
	return ModeCompare
}

// ResumeFile is one uploaded resume. It is discarded after extraction.
type ResumeFile struct {
	Data     []byte
	Filename string
}

// Request is a single analysis invocation.
type Request struct {
	Files     []ResumeFile
	Query     string
	RequestID string
	UserID    string
}

// Result holds exactly one of Summaries or Answer, selected by Mode.
type Result struct {
	Mode      Mode
	Summaries []string
	Answer    string
}

type summariesJSON struct {
	Summaries []string `json:"summaries"`
}

type answerJSON struct {
	Answer string `json:"answer"`
}

// MarshalJSON emits only the populated variant.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Mode == ModeCompare {
		return json.Marshal(answerJSON{Answer: r.Answer})
	}
	summaries := r.Summaries
	if summaries == nil {
		summaries = []string{}
	}
	return json.Marshal(summariesJSON{Summaries: summaries})
}

// UnmarshalJSON infers Mode from the key present.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Summaries *[]string `json:"summaries"`
		Answer    *string   `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Answer != nil && raw.Summaries == nil:
		*r = Result{Mode: ModeCompare, Answer: *raw.Answer}
	case raw.Summaries != nil && raw.Answer == nil:
		*r = Result{Mode: ModeSummarize, Summaries: *raw.Summaries}
	default:
		return errors.New("result must carry exactly one of summaries or answer")
	}
	return nil
}

// Extractor turns one file into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, fileName string) (string, error)
}

// Service orchestrates extraction, prompting, completion and audit.
type Service struct {
	Extractor   Extractor
	LLM         llm.Client
	Prompts     prompt.Builder
	Audit       audit.Logger
	Concurrency int

	now func() time.Time
}

// Analyze runs one request end to end. Any extraction or LLM failure aborts
// the request and nothing is audited.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if len(req.Files) == 0 {
		return Result{}, ErrNoFiles
	}
	mode := ModeFor(req.Query)
	started := s.clock()
	metrics.IncAnalysisStarted()

	result, err := s.run(ctx, req, mode)
	metrics.ObserveAnalysisDurationMs(float64(s.clock().Sub(started).Milliseconds()))
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.failed", map[string]any{
			"request_id": req.RequestID,
			"user_id":    req.UserID,
			"mode":       string(mode),
			"file_count": len(req.Files),
			"error":      err.Error(),
		})
		return Result{}, err
	}
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", map[string]any{
		"request_id":  req.RequestID,
		"user_id":     req.UserID,
		"mode":        string(mode),
		"file_count":  len(req.Files),
		"duration_ms": s.clock().Sub(started).Milliseconds(),
	})

	s.record(ctx, req, result)
	return result, nil
}

func (s *Service) run(ctx context.Context, req Request, mode Mode) (Result, error) {
	texts, err := s.extractAll(ctx, req.Files)
	if err != nil {
		return Result{}, err
	}

	if mode == ModeSummarize {
		summaries, err := s.summarizeAll(ctx, texts)
		if err != nil {
			return Result{}, err
		}
		return Result{Mode: ModeSummarize, Summaries: summaries}, nil
	}

	answer, err := s.complete(ctx, s.Prompts.Compare(texts, req.Query))
	if err != nil {
		return Result{}, err
	}
	return Result{Mode: ModeCompare, Answer: answer}, nil
}

func (s *Service) extractAll(ctx context.Context, files []ResumeFile) ([]string, error) {
	texts := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for i, f := range files {
		g.Go(func() error {
			text, err := s.Extractor.Extract(gctx, f.Data, f.Filename)
			if err != nil {
				metrics.IncExtractionFailed()
				return fmt.Errorf("resume %d: %w", i+1, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

func (s *Service) summarizeAll(ctx context.Context, texts []string) ([]string, error) {
	summaries := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for i, text := range texts {
		g.Go(func() error {
			summary, err := s.complete(gctx, s.Prompts.Summarize(text))
			if err != nil {
				return fmt.Errorf("resume %d: %w", i+1, err)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Service) complete(ctx context.Context, p string) (string, error) {
	metrics.IncLLMRequest()
	out, err := s.LLM.Complete(ctx, p)
	if err != nil {
		metrics.IncLLMFailed()
		return "", err
	}
	return out, nil
}

// record writes the audit entry. Failures are reported, never returned.
func (s *Service) record(ctx context.Context, req Request, result Result) {
	if s.Audit == nil {
		return
	}
	fields := map[string]any{
		"request_id": req.RequestID,
		"user_id":    req.UserID,
	}
	payload, err := json.Marshal(result)
	if err != nil {
		metrics.IncAuditWriteFailed()
		fields["error"] = err.Error()
		telemetry.Error("audit.write_failed", fields)
		return
	}
	rec := audit.NewRecord(req.RequestID, req.UserID, req.Query, string(payload), s.clock())
	if err := s.Audit.Log(ctx, rec); err != nil {
		metrics.IncAuditWriteFailed()
		fields["error"] = err.Error()
		telemetry.Error("audit.write_failed", fields)
	}
}

func (s *Service) limit() int {
	if s.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return s.Concurrency
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
