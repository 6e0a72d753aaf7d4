package config

import (
	"log/slog"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want Info", cfg.LogLevel)
	}
	if cfg.PackageCacheSize != 128 {
		t.Errorf("PackageCacheSize = %d, want 128", cfg.PackageCacheSize)
	}
}

func TestParse_WatchExcludeSplitsOnComma(t *testing.T) {
	cfg, err := Parse([]string{"-watch-exclude", "vendor/**,*.cjo"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.WatchExclude) != 2 {
		t.Fatalf("WatchExclude = %v, want 2 entries", cfg.WatchExclude)
	}
}

func TestParse_LogLevelOverride(t *testing.T) {
	cfg, err := Parse([]string{"-log-level", "debug"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want Debug", cfg.LogLevel)
	}
}
