package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"talentai/internal/llm"
	"talentai/internal/shared/telemetry"
	"talentai/internal/shared/util"
)

const (
	providerName   = "openai"
	defaultTimeout = 10 * time.Minute
	maxErrorBody   = 512
)

// Config configures a chat completions client. Any OpenAI-compatible endpoint
// works; the deployment default is Groq.
type Config struct {
	APIURL         string
	APIKey         string
	Model          string
	System         string
	Timeout        time.Duration
	MaxPromptChars int
	HTTPClient     *http.Client
}

// Client implements llm.Client using Chat Completions.
type Client struct {
	apiURL         string
	apiKey         string
	model          string
	system         string
	maxPromptChars int
	httpClient     *http.Client
}

// NewClient validates cfg and constructs a client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, fmt.Errorf("LLM_API_URL is required for OpenAI-compatible providers")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiURL:         cfg.APIURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		system:         cfg.System,
		maxPromptChars: cfg.MaxPromptChars,
		httpClient:     httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *chatResponseUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type chatResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete sends prompt with the fixed system instruction and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := llm.CheckPromptSize(prompt, c.maxPromptChars); err != nil {
		return "", err
	}

	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(c.system) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   llm.MaxTokens,
		Temperature: llm.Temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &llm.TransportError{Provider: providerName, Message: "request timeout", Err: err}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			// http.Client.Timeout does not wrap the context error.
			return "", &llm.TransportError{Provider: providerName, Message: "request timeout", Err: fmt.Errorf("%w: %w", context.DeadlineExceeded, err)}
		}
		return "", &llm.TransportError{Provider: providerName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &llm.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Message: "read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &llm.TransportError{Provider: providerName, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.TransportError{Provider: providerName, Message: "response parse", Err: err}
	}
	if parsed.Error != nil {
		return "", &llm.TransportError{Provider: providerName, Message: fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type)}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.TransportError{Provider: providerName, Message: "response missing choices"}
	}

	logUsage(c.model, prompt, parsed.Usage)
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func errorMessage(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

func logUsage(model, prompt string, usage *chatResponseUsage) {
	fields := map[string]any{
		"provider":    providerName,
		"model":       model,
		"prompt_hash": util.Fingerprint(prompt),
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Debug("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
