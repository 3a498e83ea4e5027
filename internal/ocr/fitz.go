package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI balances OCR accuracy against render time for typical resumes.
const DefaultDPI = 200

// Fitz rasterizes PDFs with MuPDF.
type Fitz struct {
	DPI float64
}

// NewFitz returns a rasterizer rendering at dpi, or DefaultDPI when dpi <= 0.
func NewFitz(dpi float64) Fitz {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return Fitz{DPI: dpi}
}

// Rasterize renders every page to PNG.
func (f Fitz) Rasterize(ctx context.Context, pdf []byte) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	dpi := f.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	total := doc.NumPage()
	pages := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

var _ Rasterizer = Fitz{}
