// Package main provides the entry point for the cjls language server.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/cangjie-tools/cjls/astif"
	"github.com/cangjie-tools/cjls/config"
	"github.com/cangjie-tools/cjls/index"
	"github.com/cangjie-tools/cjls/lsp"
)

var version = "dev"

// isCleanShutdown reports whether err represents a normal client
// disconnect rather than a real failure. LSP clients commonly close
// stdio on exit, which should not be reported as fatal.
func isCleanShutdown(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") || strings.Contains(errStr, "EPIPE")
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cjls: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("starting cjls", slog.String("version", version))

	// Canonicalize module root to match how document paths are
	// resolved, so /var-symlinks-to-/private/var style differences
	// don't break comparisons.
	if cfg.ModuleRoot != "" {
		if abs, err := filepath.Abs(cfg.ModuleRoot); err == nil {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				abs = resolved
			}
			cfg.ModuleRoot = filepath.Clean(abs)
		}
		if info, err := os.Stat(cfg.ModuleRoot); err != nil {
			logger.Warn("module root does not exist; import resolution may fail", slog.String("path", cfg.ModuleRoot))
		} else if !info.IsDir() {
			logger.Warn("module root is not a directory; import resolution may fail", slog.String("path", cfg.ModuleRoot))
		}
	}

	idx := index.New(index.WithPackageCacheSize(cfg.PackageCacheSize))
	server := lsp.NewServer(logger, cfg, idx, emptyFileRegistry{})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() { errCh <- server.RunStdio() }()

	logger.Info("running on stdio")

	select {
	case err := <-errCh:
		if err != nil {
			if isCleanShutdown(err) {
				logger.Debug("client closed connection")
			} else {
				return fmt.Errorf("run server: %w", err)
			}
		}
		logger.Info("server shutdown complete")
		return nil
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		if err := server.Close(); err != nil {
			logger.Warn("error closing connection", slog.String("error", err.Error()))
		}
		if err := os.Stdin.Close(); err != nil {
			logger.Debug("error closing stdin", slog.String("error", err.Error()))
		}
		select {
		case err := <-errCh:
			if err != nil {
				logger.Debug("RunStdio returned after close", slog.String("error", err.Error()))
			}
		case <-time.After(5 * time.Second):
			logger.Warn("shutdown timed out, forcing exit")
		}
		logger.Info("server shutdown complete")
		return nil
	}
}

// emptyFileRegistry is the refactor planner's file lookup with no
// files registered. Wiring a populated registry requires a concrete
// astif.File implementation backed by a Cangjie parser, which is out
// of scope here (see the astif package doc comment); the planner
// degrades gracefully, logging and skipping files it cannot resolve
// rather than failing.
type emptyFileRegistry struct{}

func (emptyFileRegistry) File(uri string) (astif.File, bool) { return nil, false }
