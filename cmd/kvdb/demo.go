package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/stevemurr/simple-kv/display"
	"github.com/stevemurr/simple-kv/kv"
)

// runDemo creates a handful of users, then reads, updates and deletes
// them, printing each result and the full store along the way.
func runDemo(db *kv.DB, w io.Writer) error {
	created, err := db.Create("User:", kv.Record{"name": "John", "age": 30, "city": "PHX"})
	if err != nil {
		return err
	}
	for _, u := range []struct {
		key   string
		props kv.Record
	}{
		{"User:001", kv.Record{"name": "Steve", "age": 32, "city": "SF"}},
		{"User:002", kv.Record{"name": "Jane", "age": 28, "city": "LA"}},
		{"User:003", kv.Record{"name": "Mary", "age": 35, "city": "SD"}},
	} {
		if _, err := db.Create(u.key, u.props); err != nil {
			return err
		}
	}

	res, err := db.Read(created.Metadata.Key)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "READ: new user: %v\n", res.Data)
	fmt.Fprintf(w, "READ: new user message: %s\n", res.Metadata.Message)

	res, err = db.Read("User:001", kv.WithFields("name"))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "READ: %q: %v\n", "User:001", res.Data)

	_, err = db.Read("User:001", kv.WithFields("name", "email"))
	if !errors.Is(err, kv.ErrFieldNotFound) {
		return fmt.Errorf("expected field not found, got %v", err)
	}
	fmt.Fprintf(w, "READ: projection rejected: %v\n", err)

	res, err = db.Update("User:002", kv.Record{"name": "Allison", "age": 40})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "UPDATE: %s\n", res.Metadata.Message)
	fmt.Fprintf(w, "UPDATE: %v\n", res.Data)
	if err := show(db, w); err != nil {
		return err
	}

	res, err = db.Delete("User:003")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "DELETE: %s\n", res.Metadata.Key)

	_, err = db.Read("User:003")
	if !errors.Is(err, kv.ErrRecordNotFound) {
		return fmt.Errorf("expected record not found, got %v", err)
	}
	fmt.Fprintf(w, "READ: after delete: %v\n", err)
	return show(db, w)
}

func show(db *kv.DB, w io.Writer) error {
	entries, err := db.Entries()
	if err != nil {
		return err
	}
	return display.Text(w, entries)
}
