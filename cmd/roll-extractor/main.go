package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/a3tai/roll-extractor/internal/config"
	"github.com/a3tai/roll-extractor/internal/layout"
	"github.com/a3tai/roll-extractor/internal/mcp"
	"github.com/a3tai/roll-extractor/internal/pdf"
	"github.com/a3tai/roll-extractor/internal/pdf/wrapper"
	"github.com/a3tai/roll-extractor/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	loader := config.NewLoader(filepath.Base(args[0]), stderr)

	cfg, err := loader.Load(args[1:])
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		printVersion(stdout)
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return exitUsage
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger := newLogger(cfg, stderr)
	logger.Debug("starting", "config", cfg.String())

	if !cfg.IsMCPMode() && !cfg.HasInput() {
		fmt.Fprintln(stdout, config.MissingInputMessage)
		loader.PrintUsage()
		return exitOK
	}

	tmpl, err := layout.Load(cfg.Layout)
	if err != nil {
		logger.Error("failed to load layout", "path", cfg.Layout, "error", err)
		return exitFailed
	}

	p, err := pipeline.New(pipeline.Options{
		Library:   wrapper.NewLedongthucLibrary(),
		Validator: pdf.NewValidator(cfg.MaxFileSize, cfg.Strict),
		Template:  tmpl,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create pipeline", "error", err)
		return exitFailed
	}

	if cfg.IsMCPMode() {
		return runMCPMode(cfg, p, logger)
	}
	return runCLIMode(cfg, p, logger, stdout)
}

// newLogger returns a text logger on stderr at the configured level
func newLogger(cfg *config.Config, stderr io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// runCLIMode extracts the requested file or directory and exits
func runCLIMode(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger, stdout io.Writer) int {
	target, err := cfg.OutputTarget()
	if err != nil {
		logger.Error("invalid output", "error", err)
		return exitUsage
	}
	target.Writer = stdout

	pages := pipeline.PageRange{Start: cfg.Start, End: cfg.End}

	if cfg.File != "" {
		if _, err := p.Run(cfg.File, pages, target); err != nil {
			logger.Error("extraction failed", "path", cfg.File, "error", err)
			return exitFailed
		}
		return exitOK
	}

	batch, err := p.RunDir(cfg.Dir, pages, target)
	if err != nil {
		logger.Error("cannot read directory", "path", cfg.Dir, "error", err)
		return exitFailed
	}

	logger.Info("directory extracted",
		"path", cfg.Dir, "files", len(batch.Processed), "failed", len(batch.Failed), "records", batch.Records())
	if len(batch.Failed) > 0 {
		return exitFailed
	}
	return exitOK
}

// runMCPMode serves the tools on stdio until the client disconnects or a
// signal arrives
func runMCPMode(cfg *config.Config, p *pipeline.Pipeline, logger *slog.Logger) int {
	server, err := mcp.NewServer(cfg, p, logger)
	if err != nil {
		logger.Error("failed to create MCP server", "error", err)
		return exitFailed
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		return exitFailed
	}
	return exitOK
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Roll Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
