// Package shell interprets one-line commands against a kv.DB.
//
// Commands:
//
//	create <key> [json]    Create a record; "User:" generates an id
//	read <key> [field...]  Read a record, optionally projected
//	update <key> <json>    Shallow-merge json into a record
//	delete <key>           Delete a record
//	display                List every record
//	collections            List collection names
//	count                  Count records
//	dump <path>            Write every record to a JSON file
//	help                   Show this help
//	exit / quit / q        Exit
//
// JSON arguments may contain comments and trailing commas.
package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/stevemurr/simple-kv/display"
	"github.com/stevemurr/simple-kv/kv"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Commands lists the command words, for completion.
var Commands = []string{
	"create", "read", "update", "delete", "display",
	"collections", "count", "dump", "help", "exit", "quit",
}

// Shell executes commands and writes their output to out.
type Shell struct {
	db  *kv.DB
	out io.Writer
}

func New(db *kv.DB, out io.Writer) *Shell {
	return &Shell{db: db, out: out}
}

// Exec runs a single command line. It reports quit=true for exit commands.
// Store errors are returned unchanged so callers can match kv sentinels.
func (s *Shell) Exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	cmd, rest := cut(line)
	switch strings.ToLower(cmd) {
	case "exit", "quit", "q":
		return true, nil
	case "help", "?":
		s.printHelp()
		return false, nil
	case "create":
		return false, s.create(rest)
	case "read", "get":
		return false, s.read(rest)
	case "update":
		return false, s.update(rest)
	case "delete", "del":
		return false, s.delete(rest)
	case "display", "ls", "list":
		return false, s.display()
	case "collections":
		return false, s.collections()
	case "count", "len":
		return false, s.count()
	case "dump":
		return false, s.dump(rest)
	default:
		return false, fmt.Errorf("%w: %s (type 'help' for commands)", ErrUnknownCommand, cmd)
	}
}

func (s *Shell) create(args string) error {
	key, body := cut(args)
	if key == "" {
		return fmt.Errorf("%w: create <key> [json]", ErrUsage)
	}
	var props kv.Record
	if body != "" {
		var err error
		if props, err = parseRecord(body); err != nil {
			return err
		}
	}
	res, err := s.db.Create(key, props)
	if err != nil {
		return err
	}
	return s.printResult(res)
}

func (s *Shell) read(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("%w: read <key> [field...]", ErrUsage)
	}
	var opts []kv.ReadOption
	if len(fields) > 1 {
		opts = append(opts, kv.WithFields(fields[1:]...))
	}
	res, err := s.db.Read(fields[0], opts...)
	if err != nil {
		return err
	}
	return s.printResult(res)
}

func (s *Shell) update(args string) error {
	key, body := cut(args)
	if key == "" || body == "" {
		return fmt.Errorf("%w: update <key> <json>", ErrUsage)
	}
	patch, err := parseRecord(body)
	if err != nil {
		return err
	}
	res, err := s.db.Update(key, patch)
	if err != nil {
		return err
	}
	return s.printResult(res)
}

func (s *Shell) delete(args string) error {
	key, _ := cut(args)
	if key == "" {
		return fmt.Errorf("%w: delete <key>", ErrUsage)
	}
	res, err := s.db.Delete(key)
	if err != nil {
		return err
	}
	return s.printResult(res)
}

func (s *Shell) display() error {
	entries, err := s.db.Entries()
	if err != nil {
		return err
	}
	return display.Text(s.out, entries)
}

func (s *Shell) collections() error {
	names, err := s.db.Collections()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(s.out, n)
	}
	return nil
}

func (s *Shell) count() error {
	n, err := s.db.Len()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, n)
	return nil
}

func (s *Shell) dump(args string) error {
	path, _ := cut(args)
	if path == "" {
		return fmt.Errorf("%w: dump <path>", ErrUsage)
	}
	entries, err := s.db.Entries()
	if err != nil {
		return err
	}
	if err := display.WriteFile(path, entries); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Wrote %d records to %s\n", len(entries), path)
	return nil
}

func (s *Shell) printResult(res *kv.Result) error {
	fmt.Fprintln(s.out, res.Metadata.Message)
	if res.Data == nil {
		return nil
	}
	b, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, string(b))
	return nil
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  create <key> [json]    Create a record; "User:" generates an id
  read <key> [field...]  Read a record, optionally projected
  update <key> <json>    Shallow-merge json into a record
  delete <key>           Delete a record
  display                List every record
  collections            List collection names
  count                  Count records
  dump <path>            Write every record to a JSON file
  help                   Show this help
  exit / quit / q        Exit
`)
}

// parseRecord decodes a JSON object, allowing comments and trailing commas.
func parseRecord(body string) (kv.Record, error) {
	std, err := hujson.Standardize([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	var rec kv.Record
	if err := json.Unmarshal(std, &rec); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if rec == nil {
		return nil, errors.New("invalid JSON: expected an object")
	}
	return rec, nil
}

// cut splits s at its first run of whitespace.
func cut(s string) (head, tail string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
