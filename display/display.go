// Package display renders store enumerations for people and for files.
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/natefinch/atomic"

	"github.com/stevemurr/simple-kv/kv"
)

// Text writes one line per record under an "All Records:" heading:
//
//	All Records:
//	'User:001': {"age":32,"id":"User:001","name":"Steve"}
func Text(w io.Writer, entries []kv.Entry) error {
	if _, err := fmt.Fprintln(w, "All Records:"); err != nil {
		return err
	}
	for _, e := range entries {
		b, err := json.Marshal(e.Record)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Key, err)
		}
		if _, err := fmt.Fprintf(w, "'%s': %s\n", e.Key, b); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes entries as an indented JSON array of {"key", "record"}.
func JSON(w io.Writer, entries []kv.Entry) error {
	if entries == nil {
		entries = []kv.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// WriteFile writes the JSON rendering of entries to path. The file is
// replaced atomically, so readers never observe a partial dump.
func WriteFile(path string, entries []kv.Entry) error {
	var buf bytes.Buffer
	if err := JSON(&buf, entries); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write dump %s: %w", path, err)
	}
	return nil
}
