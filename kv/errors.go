package kv

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations. Errors returned by DB wrap one of
// these, except backend failures, which wrap the backend's own error.
var (
	ErrAlreadyExists      = errors.New("record already exists")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrRecordNotFound     = errors.New("record not found")
	ErrFieldNotFound      = errors.New("field not found")
	ErrNotImplemented     = errors.New("not implemented")
	ErrInvalidKey         = errors.New("invalid key")
)

// Error describes a failed operation.
type Error struct {
	Op    string // "create", "read", "update", "delete", "parse", ...
	Key   string // composite key as given or resolved
	Field string // offending field for ErrFieldNotFound
	Err   error  // sentinel, or a backend error

	msg string
}

func (e *Error) Error() string {
	s := fmt.Sprintf("kv: %s %q: %v", e.Op, e.Key, e.Err)
	if e.Field != "" {
		s += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.msg != "" {
		s += ": " + e.msg
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}
