package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"talentai/internal/llm"
	"talentai/internal/shared/telemetry"
	"talentai/internal/shared/util"
)

const providerName = "gemini"

// Config configures the Gemini client.
type Config struct {
	APIKey         string
	Model          string
	System         string
	MaxPromptChars int
}

// generator is the slice of genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client over the Gemini API.
type Client struct {
	models         generator
	model          string
	system         string
	maxPromptChars int
}

// NewClient validates cfg and connects a genai client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{
		models:         gc.Models,
		model:          cfg.Model,
		system:         cfg.System,
		maxPromptChars: cfg.MaxPromptChars,
	}, nil
}

// Complete sends prompt with the fixed system instruction and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := llm.CheckPromptSize(prompt, c.maxPromptChars); err != nil {
		return "", err
	}

	temp := float32(llm.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: llm.MaxTokens,
	}
	if strings.TrimSpace(c.system) != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: c.system}}}
	}
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &llm.TransportError{Provider: providerName, StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
			return "", &llm.TransportError{Provider: providerName, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
		}
		return "", &llm.TransportError{Provider: providerName, Message: "request failed", Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &llm.TransportError{Provider: providerName, Message: "response missing candidates"}
	}
	logUsage(c.model, prompt, resp.UsageMetadata)
	return strings.TrimSpace(resp.Text()), nil
}

func logUsage(model, prompt string, usage *genai.GenerateContentResponseUsageMetadata) {
	fields := map[string]any{
		"provider":    providerName,
		"model":       model,
		"prompt_hash": util.Fingerprint(prompt),
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokenCount
		fields["completion_tokens"] = usage.CandidatesTokenCount
		fields["total_tokens"] = usage.TotalTokenCount
	}
	telemetry.Debug("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
