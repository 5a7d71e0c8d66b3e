// kvdb is an interactive shell over an in-process collection:id store.
//
// Usage:
//
//	kvdb [flags]          Start the REPL
//	kvdb --demo           Run the demo scenario and exit
//
// Flags fall back to environment variables:
//
//	-b, --backend    KV_BACKEND    memory (default) or sqlite
//	    --dsn        KV_DSN        sqlite data source (default ":memory:")
//	    --log-level  KV_LOG_LEVEL  debug, info, warn or error (default info)
//	    --history    KV_HISTORY    REPL history file; empty disables history
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/stevemurr/simple-kv/kv"
	"github.com/stevemurr/simple-kv/store"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultHistory returns ~/.kvdb_history, or "" without a home directory.
func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kvdb_history")
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("kvdb", flag.ContinueOnError)
	backend := fs.StringP("backend", "b", env("KV_BACKEND", "memory"), "record backend: memory or sqlite")
	dsn := fs.String("dsn", env("KV_DSN", ""), "sqlite data source (default in-memory)")
	logLevel := fs.String("log-level", env("KV_LOG_LEVEL", "info"), "log level: debug, info, warn or error")
	history := fs.String("history", env("KV_HISTORY", defaultHistory()), "REPL history file; empty disables history")
	demo := fs.Bool("demo", false, "run the demo scenario and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", *logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := store.New(*backend, *dsn)
	if err != nil {
		return fmt.Errorf("failed to create store (backend=%s): %w", *backend, err)
	}
	db := kv.New(kv.WithStore(s), kv.WithLogger(logger))
	defer db.Close()

	logger.Debug("store opened", "backend", *backend, "dsn", *dsn)

	if *demo {
		return runDemo(db, os.Stdout)
	}
	r := &REPL{db: db, history: *history, log: logger}
	return r.Run()
}
