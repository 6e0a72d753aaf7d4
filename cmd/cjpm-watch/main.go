// Package main provides cjpm-watch, a thin CLI wrapper over the
// watcher package: it watches a directory tree and prints
// workspace/didChangeWatchedFiles-shaped events as they arrive.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cangjie-tools/cjls/watcher"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cjpm-watch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("cjpm-watch", flag.ContinueOnError)
	debounceMs := fs.Int("debounce-ms", 200, "debounce window in milliseconds")
	exclude := fs.String("exclude", "", "comma-separated glob patterns to exclude")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	var excludeGlobs []string
	if *exclude != "" {
		excludeGlobs = strings.Split(*exclude, ",")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	w, err := watcher.New(watcher.Options{DebounceMs: *debounceMs, Exclude: excludeGlobs}, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(root); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	enc := json.NewEncoder(os.Stdout)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			enc.Encode(struct {
				URI  string `json:"uri"`
				Type string `json:"type"`
			}{URI: ev.URI, Type: ev.Type.String()})
		case <-sigCh:
			return w.Stop()
		}
	}
}
