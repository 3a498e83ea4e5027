package llm

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Fixed sampling parameters. Low temperature favors factual, repeatable output.
const (
	MaxTokens   = 700
	Temperature = 0.2
)

// ErrPromptTooLarge is returned before any network I/O when a prompt exceeds
// the configured size limit.
var ErrPromptTooLarge = errors.New("prompt exceeds size limit")

// Client sends a single prompt to a hosted model and returns its text answer.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TransportError reports a failed call to the remote model service: network
// errors, non-2xx responses and malformed bodies.
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s http status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// CheckPromptSize enforces limit in characters. A limit <= 0 disables the check.
func CheckPromptSize(prompt string, limit int) error {
	if limit <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(prompt); n > limit {
		return fmt.Errorf("%w: %d characters, limit %d", ErrPromptTooLarge, n, limit)
	}
	return nil
}
