package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/stevemurr/simple-kv/kv"
	"github.com/stevemurr/simple-kv/shell"
)

// REPL is the interactive command loop.
type REPL struct {
	db      *kv.DB
	history string
	log     *slog.Logger
	liner   *liner.State
}

// historyStore is the part of *liner.State that reads and writes history.
type historyStore interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(completer)

	loadHistory(r.liner, r.history, r.log)
	defer saveHistory(r.liner, r.history, r.log)

	sh := shell.New(r.db, os.Stdout)

	fmt.Println("kvdb - collection:id store")
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("kvdb> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.liner.AppendHistory(line)

		quit, err := sh.Exec(line)
		if err != nil {
			fmt.Printf("Error: %v\n", describe(err))
			continue
		}
		if quit {
			fmt.Println("Bye!")
			return nil
		}
	}
}

// loadHistory reads history from path. A missing file is not an error.
func loadHistory(h historyStore, path string, log *slog.Logger) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug("open history failed", "path", path, "err", err)
		}
		return
	}
	defer f.Close()
	if _, err := h.ReadHistory(f); err != nil {
		log.Debug("read history failed", "path", path, "err", err)
	}
}

// saveHistory persists command history to path.
func saveHistory(h historyStore, path string, log *slog.Logger) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		log.Debug("create history failed", "path", path, "err", err)
		return
	}
	defer f.Close()
	if _, err := h.WriteHistory(f); err != nil {
		log.Debug("write history failed", "path", path, "err", err)
	}
}

// completer provides tab completion for commands.
func completer(line string) []string {
	var out []string
	lower := strings.ToLower(line)
	for _, c := range shell.Commands {
		if strings.HasPrefix(c, lower) {
			out = append(out, c)
		}
	}
	return out
}

// describe adds a hint for the error kinds a user can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, kv.ErrCollectionNotFound):
		return err.Error() + " (create a record in it first)"
	case errors.Is(err, kv.ErrInvalidKey):
		return err.Error() + " (keys look like collection:id)"
	default:
		return err.Error()
	}
}
