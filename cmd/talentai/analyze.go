package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"talentai/internal/analysis"
	"talentai/internal/bootstrap"
	"talentai/internal/extract"
)

var (
	analyzeQuery     string
	analyzeRequestID string
	analyzeUserID    string
	analyzeOutput    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Summarize resumes, or compare them when --query is set",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeQuery, "query", "q", "", "question used to compare the resumes")
	analyzeCmd.Flags().StringVar(&analyzeRequestID, "request-id", "", "request id recorded in the audit log (default: random uuid)")
	analyzeCmd.Flags().StringVar(&analyzeUserID, "user-id", "cli", "user id recorded in the audit log")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json", "output format: json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeOutput != "json" && analyzeOutput != "yaml" {
		return fmt.Errorf("unsupported output %q", analyzeOutput)
	}
	files, err := readResumeFiles(args)
	if err != nil {
		return err
	}
	requestID := analyzeRequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := bootstrap.Build(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	res, err := app.Analysis.Analyze(ctx, analysis.Request{
		Files:     files,
		Query:     analyzeQuery,
		RequestID: requestID,
		UserID:    analyzeUserID,
	})
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, analyzeOutput)
}

func readResumeFiles(paths []string) ([]analysis.ResumeFile, error) {
	files := make([]analysis.ResumeFile, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if !extract.Supported(name) {
			return nil, fmt.Errorf("%s: unsupported file type", p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, analysis.ResumeFile{Data: data, Filename: name})
	}
	return files, nil
}

// writeResult prints the populated variant only, in either format.
func writeResult(w io.Writer, res analysis.Result, format string) error {
	if format == "yaml" {
		var doc any
		if res.Mode == analysis.ModeCompare {
			doc = struct {
				Answer string `yaml:"answer"`
			}{res.Answer}
		} else {
			doc = struct {
				Summaries []string `yaml:"summaries"`
			}{res.Summaries}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
