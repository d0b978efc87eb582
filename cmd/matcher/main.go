package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/services"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "matcher",
		Usage: "Rank resumes against a job description and write a CSV report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:     "jd",
				Aliases:  []string{"j"},
				Usage:    "Path to the job description (.pdf or .txt)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:     "resume",
				Aliases:  []string{"r"},
				Usage:    "Path to a resume (.pdf or .txt), may be repeated",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format (simple, enhanced)",
				Value: "enhanced",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the report to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "embedding-provider",
				Usage: "Override EMBEDDING_PROVIDER (openai, gemini, hashing)",
			},
		},
		Before: setupLogger,
		Action: matchCommand,
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return nil
}

func matchCommand(c *cli.Context) error {
	format := c.String("format")
	if format != "simple" && format != "enhanced" {
		return fmt.Errorf("invalid format %q: must be simple or enhanced", format)
	}

	cfg := config.Load()
	if provider := c.String("embedding-provider"); provider != "" {
		cfg.Embedding.Provider = strings.ToLower(provider)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	loader := services.NewDocumentLoader(cfg.Storage.MaxFileSize)
	jd, err := loader.LoadFile(c.String("jd"))
	if err != nil {
		return fmt.Errorf("failed to load job description: %w", err)
	}

	paths := c.StringSlice("resume")
	resumes := make([]models.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := loader.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load resume: %w", err)
		}
		resumes = append(resumes, *doc)
	}

	logger := slog.Default()
	model := services.LoadEmbeddingModel(c.Context, cfg, logger)
	matcher, err := services.BuildMatcher(cfg, model, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize matcher: %w", err)
	}
	defer matcher.Close()

	report, err := matcher.Match(c.Context, services.MatchRequest{
		JobDescription: jd,
		Resumes:        resumes,
	})
	if err != nil {
		return err
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(c.App.ErrWriter, "warning: %s\n", warning)
	}

	var out io.Writer = c.App.Writer
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return writeReport(out, format, services.ReportRows(report))
}

func writeReport(w io.Writer, format string, rows []services.ReportRow) error {
	if format == "simple" {
		return services.WriteSimpleCSV(w, rows)
	}
	return services.WriteEnhancedCSV(w, rows)
}
