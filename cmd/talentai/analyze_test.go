package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"talentai/internal/analysis"
)

func TestWriteResultYAML(t *testing.T) {
	var buf bytes.Buffer
	res := analysis.Result{Mode: analysis.ModeSummarize, Summaries: []string{"first", "second"}}
	if err := writeResult(&buf, res, "yaml"); err != nil {
		t.Fatalf("writeResult: %v", err)
	}
	var doc map[string][]string
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(doc) != 1 || len(doc["summaries"]) != 2 || doc["summaries"][1] != "second" {
		t.Fatalf("unexpected yaml %q", buf.String())
	}
}

func TestWriteResultJSONAnswerOnly(t *testing.T) {
	var buf bytes.Buffer
	res := analysis.Result{Mode: analysis.ModeCompare, Answer: "Currículo 1"}
	if err := writeResult(&buf, res, "json"); err != nil {
		t.Fatalf("writeResult: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "summaries") || !strings.Contains(out, `"answer": "Currículo 1"`) {
		t.Fatalf("unexpected json %q", out)
	}
}

func TestReadResumeFiles(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "ana.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	files, err := readResumeFiles([]string{pdf})
	if err != nil {
		t.Fatalf("readResumeFiles: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "ana.pdf" || string(files[0].Data) != "%PDF" {
		t.Fatalf("unexpected files %#v", files)
	}

	if _, err := readResumeFiles([]string{filepath.Join(dir, "cv.docx")}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := readResumeFiles([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Fatalf("expected read error")
	}
}
