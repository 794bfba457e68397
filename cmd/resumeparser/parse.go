package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"resume-parser/internal/bootstrap"
	"resume-parser/internal/resumes"
	"resume-parser/internal/shared/config"
)

type parseOptions struct {
	outFile string
	summary bool
	compact bool
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <resume.pdf>",
		Short: "Parse one PDF resume and print the structured JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a short human-readable summary instead of JSON")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "Print JSON without indentation")
	return cmd
}

func runParse(ctx context.Context, stdout io.Writer, path string, opts *parseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("only PDF files are supported: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	app, err := bootstrap.BuildService(cfg, buildOptions...)
	if err != nil {
		return err
	}

	if cfg.ParseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ParseTimeout)
		defer cancel()
	}
	resume, err := app.ResumeService.Parse(ctx, data)
	if err != nil {
		return err
	}

	if opts.summary {
		return writeSummary(stdout, resume)
	}

	var payload []byte
	if opts.compact {
		payload, err = json.Marshal(resume)
	} else {
		payload, err = json.MarshalIndent(resume, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal resume: %w", err)
	}
	if opts.outFile != "" {
		return os.WriteFile(opts.outFile, append(payload, '\n'), 0o644)
	}
	_, err = fmt.Fprintln(stdout, string(payload))
	return err
}

func writeSummary(w io.Writer, resume resumes.Resume) error {
	data, err := resumes.Decode(resume)
	if err != nil {
		return fmt.Errorf("resume does not fit the expected shape: %w", err)
	}
	info := data.PersonalInfo
	fmt.Fprintf(w, "Name:       %s\n", orDash(info.Name))
	fmt.Fprintf(w, "Email:      %s\n", orDash(info.Email))
	fmt.Fprintf(w, "Location:   %s\n", orDash(info.Location))
	fmt.Fprintf(w, "Education:  %d\n", len(data.Education))
	fmt.Fprintf(w, "Experience: %d\n", len(data.WorkExperience))
	fmt.Fprintf(w, "Projects:   %d\n", len(data.Projects))
	fmt.Fprintf(w, "Skills:     %d\n", len(data.Skills))
	for _, work := range data.WorkExperience {
		end := work.EndDate
		if work.Current {
			end = "present"
		}
		fmt.Fprintf(w, "  - %s, %s (%s to %s)\n", orDash(work.Position), orDash(work.Company), orDash(work.StartDate), orDash(end))
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
