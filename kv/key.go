package kv

import "strings"

// Key is a parsed composite key.
type Key struct {
	Collection string
	ID         string
}

// String returns the canonical "collection:id" form.
func (k Key) String() string {
	return k.Collection + ":" + k.ID
}

// ParseKey splits s on its first ':'. The collection must be non-empty;
// the id may be empty, which only Create accepts.
func ParseKey(s string) (Key, error) {
	return parseKey("parse", s)
}

func parseKey(op, s string) (Key, error) {
	collection, id, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, &Error{Op: op, Key: s, Err: ErrInvalidKey, msg: "missing ':' separator"}
	}
	if collection == "" {
		return Key{}, &Error{Op: op, Key: s, Err: ErrInvalidKey, msg: "empty collection"}
	}
	return Key{Collection: collection, ID: id}, nil
}

// parseRecordKey is parseKey for operations that address an existing record.
func parseRecordKey(op, s string) (Key, error) {
	k, err := parseKey(op, s)
	if err != nil {
		return Key{}, err
	}
	if k.ID == "" {
		return Key{}, &Error{Op: op, Key: s, Err: ErrInvalidKey, msg: "empty id"}
	}
	return k, nil
}
