package extract

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeEngine struct {
	mu      sync.Mutex
	results map[string][]string
	err     error
	calls   []string
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(image))
	if f.err != nil {
		return nil, f.err
	}
	return f.results[string(image)], nil
}

type fakeRasterizer struct {
	pages [][]byte
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, pdf []byte) ([][]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func TestExtractImageJoinsBlocks(t *testing.T) {
	engine := &fakeEngine{results: map[string][]string{"png-bytes": {"Line A", "Line B"}}}
	raster := &fakeRasterizer{}
	ex := New(engine, raster, 0)

	got, err := ex.Extract(context.Background(), []byte("png-bytes"), "resume.png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "Line A\nLine B" {
		t.Fatalf("expected %q, got %q", "Line A\nLine B", got)
	}
	if raster.calls != 0 {
		t.Fatalf("expected images to skip rasterizer, got %d calls", raster.calls)
	}
}

func TestExtractPDFJoinsPagesInOrder(t *testing.T) {
	engine := &fakeEngine{results: map[string][]string{
		"page-1": {"P1"},
		"page-2": {"P2"},
	}}
	raster := &fakeRasterizer{pages: [][]byte{[]byte("page-1"), []byte("page-2")}}
	ex := New(engine, raster, 0)

	got, err := ex.Extract(context.Background(), []byte("%PDF-1.4 fake"), "CV.PDF")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "P1\nP2" {
		t.Fatalf("expected %q, got %q", "P1\nP2", got)
	}
	if raster.calls != 1 {
		t.Fatalf("expected one rasterize call, got %d", raster.calls)
	}
	if strings.Join(engine.calls, ",") != "page-1,page-2" {
		t.Fatalf("expected pages OCR'd in order, got %v", engine.calls)
	}
}

func TestExtractEmptyOCRIsNotAnError(t *testing.T) {
	ex := New(&fakeEngine{results: map[string][]string{}}, &fakeRasterizer{}, 0)

	got, err := ex.Extract(context.Background(), []byte("blank"), "blank.jpg")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractErrors(t *testing.T) {
	boom := errors.New("engine crashed")
	tests := []struct {
		name     string
		engine   *fakeEngine
		raster   *fakeRasterizer
		maxPages int
		data     []byte
		fileName string
		wantErr  error
	}{
		{
			name:     "empty file",
			engine:   &fakeEngine{},
			raster:   &fakeRasterizer{},
			data:     nil,
			fileName: "a.png",
			wantErr:  ErrEmptyFile,
		},
		{
			name:     "ocr failure",
			engine:   &fakeEngine{err: boom},
			raster:   &fakeRasterizer{},
			data:     []byte("img"),
			fileName: "a.jpeg",
			wantErr:  boom,
		},
		{
			name:     "rasterize failure",
			engine:   &fakeEngine{},
			raster:   &fakeRasterizer{err: boom},
			data:     []byte("%PDF"),
			fileName: "a.pdf",
			wantErr:  boom,
		},
		{
			name:     "page ocr failure",
			engine:   &fakeEngine{err: boom},
			raster:   &fakeRasterizer{pages: [][]byte{[]byte("p1")}},
			data:     []byte("%PDF"),
			fileName: "a.pdf",
			wantErr:  boom,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ex := New(tt.engine, tt.raster, tt.maxPages)
			_, err := ex.Extract(context.Background(), tt.data, tt.fileName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var extractErr *Error
			if !errors.As(err, &extractErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if extractErr.FileName != tt.fileName {
				t.Fatalf("expected file name %q, got %q", tt.fileName, extractErr.FileName)
			}
		})
	}
}

func TestExtractPageLimitRejectsMalformedPDF(t *testing.T) {
	raster := &fakeRasterizer{pages: [][]byte{[]byte("p1")}}
	ex := New(&fakeEngine{}, raster, 3)

	_, err := ex.Extract(context.Background(), bytes.Repeat([]byte("x"), 64), "broken.pdf")
	if err == nil {
		t.Fatal("expected malformed pdf error")
	}
	if raster.calls != 0 {
		t.Fatalf("expected no rendering for malformed pdf, got %d calls", raster.calls)
	}
}

func TestExtractHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ex := New(&fakeEngine{}, &fakeRasterizer{}, 0)
	if _, err := ex.Extract(ctx, []byte("img"), "a.png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"resume.pdf", true},
		{"resume.PDF", true},
		{"photo.JPG", true},
		{"photo.jpeg", true},
		{"scan.png", true},
		{"resume.docx", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.name); got != tt.want {
			t.Fatalf("Supported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
