package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"talentai/internal/llm"
)

func newTestClient(t *testing.T, url string, maxPromptChars int) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIURL:         url,
		APIKey:         "test-key",
		Model:          "llama3-70b-8192",
		System:         "You are a technical recruiting expert.",
		MaxPromptChars: maxPromptChars,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteSendsFixedRequestShape(t *testing.T) {
	var got chatRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Resume 2 fits best.  "}}]}`))
	}))
	defer server.Close()

	answer, err := newTestClient(t, server.URL, 0).Complete(context.Background(), "Which resume?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "Resume 2 fits best." {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected Authorization header: %q", auth)
	}
	if got.Model != "llama3-70b-8192" {
		t.Fatalf("unexpected model: %s", got.Model)
	}
	if got.MaxTokens != llm.MaxTokens {
		t.Fatalf("expected max_tokens %d, got %d", llm.MaxTokens, got.MaxTokens)
	}
	if got.Temperature != float32(llm.Temperature) {
		t.Fatalf("expected temperature %v, got %v", llm.Temperature, got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("expected system+user messages, got %+v", got.Messages)
	}
	if got.Messages[1].Content != "Which resume?" {
		t.Fatalf("unexpected user content: %q", got.Messages[1].Content)
	}
}

func TestCompleteNon2xxReturnsTransportError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "upstream exploded", wantCode: 500, wantMsg: "upstream exploded"},
		{name: "auth error", status: http.StatusUnauthorized, body: `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, wantCode: 401, wantMsg: "Invalid API Key"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL, 0).Complete(context.Background(), "prompt")
			var transportErr *llm.TransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if transportErr.StatusCode != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, transportErr.StatusCode)
			}
			if !strings.Contains(transportErr.Message, tt.wantMsg) {
				t.Fatalf("expected message containing %q, got %q", tt.wantMsg, transportErr.Message)
			}
		})
	}
}

func TestCompleteMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "no choices", body: `{"choices":[]}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL, 0).Complete(context.Background(), "prompt")
			var transportErr *llm.TransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("expected TransportError, got %v", err)
			}
		})
	}
}

func TestCompleteRejectsOversizedPromptWithoutCalling(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 10).Complete(context.Background(), strings.Repeat("x", 11))
	if !errors.Is(err, llm.ErrPromptTooLarge) {
		t.Fatalf("expected ErrPromptTooLarge, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
}

func TestCompleteNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url, 0).Complete(context.Background(), "prompt")
	var transportErr *llm.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.StatusCode != 0 {
		t.Fatalf("expected no status code, got %d", transportErr.StatusCode)
	}
}

func TestCompleteClientTimeoutWrapsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		APIURL:  srv.URL,
		APIKey:  "test-key",
		Model:   "llama3-70b-8192",
		Timeout: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Complete(context.Background(), "hello")
	var te *llm.TransportError
	if !errors.As(err, &te) || te.Message != "request timeout" {
		t.Fatalf("expected timeout transport error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected error to match context.DeadlineExceeded, got %v", err)
	}
}

func TestNewClientValidates(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing key", cfg: Config{APIURL: "http://x", Model: "m"}},
		{name: "missing model", cfg: Config{APIURL: "http://x", APIKey: "k"}},
		{name: "missing url", cfg: Config{APIKey: "k", Model: "m"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
