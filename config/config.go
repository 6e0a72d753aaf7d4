// Package config loads the server's process-wide configuration from
// command-line flags, mirroring the teacher's lsp.Config shape but
// generalized to the extra knobs a full language-feature server needs.
package config

import (
	"flag"
	"log/slog"
	"os"
	"strings"
)

// Config holds the server's process-wide configuration.
type Config struct {
	// ModuleRoot overrides the computed module root for import
	// resolution and package-relation decisions.
	ModuleRoot string
	// LogLevel controls slog's minimum emitted level.
	LogLevel slog.Level
	// PositionEncodingOverride holds the -position-encoding flag value
	// (UTF-16, UTF-8, or UTF-32). Parse fills it in; no other package
	// reads it, so it does not change the wire position encoding.
	PositionEncodingOverride string
	// PackageCacheSize bounds the index's compiled-package symbol-batch
	// cache; 0 disables the cache.
	PackageCacheSize int
	// WatchExclude lists glob patterns the watcher package ignores,
	// e.g. vendored or generated directories.
	WatchExclude []string
}

// Parse builds a Config from args (normally os.Args[1:]), applying
// defaults for any flag the caller omits. CJLS_MODULE_ROOT is consulted
// when -module-root is not passed, matching how IDE-launched language
// servers are usually configured without a wrapping shell script.
func Parse(args []string) (Config, error) {
	cfg := Config{
		LogLevel:         slog.LevelInfo,
		PackageCacheSize: 128,
	}

	fs := flag.NewFlagSet("cjls", flag.ContinueOnError)
	fs.StringVar(&cfg.ModuleRoot, "module-root", os.Getenv("CJLS_MODULE_ROOT"), "override the computed module root")
	fs.StringVar(&cfg.PositionEncodingOverride, "position-encoding", "", "force a position encoding (utf-8, utf-16, utf-32)")
	fs.IntVar(&cfg.PackageCacheSize, "package-cache-size", cfg.PackageCacheSize, "bounded LRU size for the compiled-package symbol cache (0 disables)")

	var logLevel string
	fs.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	var watchExclude string
	fs.StringVar(&watchExclude, "watch-exclude", "", "comma-separated glob patterns to exclude from file watching")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.LogLevel = parseLevel(logLevel)
	if watchExclude != "" {
		cfg.WatchExclude = strings.Split(watchExclude, ",")
	}
	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
