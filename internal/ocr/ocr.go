// Package ocr holds the optical character recognition engine and the PDF page
// rasterizer used to feed it.
//
// Implementations must be safe for concurrent use. Engines backed by
// non-reentrant native libraries serialize access internally.
package ocr

import (
	"context"
	"errors"
	"strings"
)

// ErrClosed is returned when an engine is used after Close.
var ErrClosed = errors.New("ocr engine closed")

// Engine recognizes text in a single image.
type Engine interface {
	// Recognize returns paragraph-level text blocks in the engine's reading order.
	Recognize(ctx context.Context, image []byte) ([]string, error)
}

// Rasterizer renders every page of a PDF document into an encoded image.
type Rasterizer interface {
	// Rasterize returns one PNG per page, in page order.
	Rasterize(ctx context.Context, pdf []byte) ([][]byte, error)
}

// normalizeBlocks collapses intra-paragraph line breaks and drops empty blocks.
func normalizeBlocks(raw []string) []string {
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		text := strings.Join(strings.Fields(block), " ")
		if text == "" {
			continue
		}
		blocks = append(blocks, text)
	}
	return blocks
}
