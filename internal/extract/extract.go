package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"talentai/internal/ocr"
)

var (
	ErrEmptyFile    = errors.New("empty file")
	ErrTooManyPages = errors.New("pdf exceeds page limit")
)

// supportedExtensions lists the upload types accepted at the boundary.
var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Error reports a failed extraction for one resume file.
type Error struct {
	FileName string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract text file=%s: %v", e.FileName, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Extractor converts resume files into plain text through OCR.
// It keeps no state between calls; concurrency safety is inherited from Engine and Rasterizer.
type Extractor struct {
	Engine     ocr.Engine
	Rasterizer ocr.Rasterizer
	// MaxPages rejects longer PDFs before rendering. Zero disables the check.
	MaxPages int
}

// New constructs an Extractor.
func New(engine ocr.Engine, rasterizer ocr.Rasterizer, maxPages int) *Extractor {
	return &Extractor{Engine: engine, Rasterizer: rasterizer, MaxPages: maxPages}
}

// IsPDF reports whether fileName is dispatched to the PDF path.
func IsPDF(fileName string) bool {
	return strings.ToLower(filepath.Ext(fileName)) == ".pdf"
}

// Supported reports whether fileName has an accepted resume extension.
func Supported(fileName string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// Extract returns the text of one resume. PDFs are rendered page by page and
// each page OCR'd; anything else is OCR'd as a single image. Blocks and pages
// are joined with newlines.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &Error{FileName: fileName, Err: ErrEmptyFile}
	}

	var (
		text string
		err  error
	)
	if IsPDF(fileName) {
		text, err = e.extractPDF(ctx, data)
	} else {
		text, err = e.extractImage(ctx, data)
	}
	if err != nil {
		return "", &Error{FileName: fileName, Err: err}
	}
	return text, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	blocks, err := e.Engine.Recognize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return strings.Join(blocks, "\n"), nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, error) {
	if e.MaxPages > 0 {
		n, err := countPages(data)
		if err != nil {
			return "", err
		}
		if n > e.MaxPages {
			return "", fmt.Errorf("%w: %d pages, limit %d", ErrTooManyPages, n, e.MaxPages)
		}
	}

	pages, err := e.Rasterizer.Rasterize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}

	texts := make([]string, 0, len(pages))
	for i, page := range pages {
		text, err := e.extractImage(ctx, page)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), nil
}

// countPages reads the page tree without rendering anything.
func countPages(data []byte) (n int, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return reader.NumPage(), nil
}
