package ocr

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by a single gosseract client.
// The underlying tesseract API is not reentrant, so every call holds mu.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseract constructs an engine for the given tesseract language codes (e.g. "por", "eng").
func NewTesseract(languages ...string) (*Tesseract, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("tesseract set language %v: %w", languages, err)
		}
	}
	return &Tesseract{client: client}, nil
}

// Recognize runs OCR over one encoded image and returns its paragraphs.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil, ErrClosed
	}

	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("tesseract load image: %w", err)
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_PARA)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognize: %w", err)
	}

	raw := make([]string, 0, len(boxes))
	for _, box := range boxes {
		raw = append(raw, box.Word)
	}
	return normalizeBlocks(raw), nil
}

// Close releases the native client. Subsequent calls return ErrClosed.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.client == nil {
		return nil
	}
	err := t.client.Close()
	t.client = nil
	return err
}

var _ Engine = (*Tesseract)(nil)
