package kv

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/stevemurr/simple-kv/store"
)

// Action names the operation that produced a Result.
type Action string

const (
	ActionCreated Action = "Created"
	ActionRead    Action = "Read"
	ActionUpdated Action = "Updated"
	ActionDeleted Action = "Deleted"
)

// Metadata describes what an operation did.
type Metadata struct {
	Action  Action `json:"action"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Result is the successful outcome of an operation. Data is nil for
// Delete; Metadata.Key is always the resolved composite key.
type Result struct {
	Data     Record   `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Entry is one record in an enumeration.
type Entry struct {
	Key    string `json:"key"`
	Record Record `json:"record"`
}

// DB is the store engine. All methods are safe for concurrent use: each
// operation holds a single lock for its whole duration.
type DB struct {
	mu    sync.Mutex
	store store.Store
	ids   IDGenerator
	log   *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithStore sets the record backend. The default is a store.MemoryStore.
func WithStore(s store.Store) Option {
	return func(db *DB) { db.store = s }
}

// WithIDGenerator sets the generator used when Create gets an empty id.
// The default is UUIDv7.
func WithIDGenerator(g IDGenerator) Option {
	return func(db *DB) { db.ids = g }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) { db.log = l }
}

// New creates an empty DB.
func New(opts ...Option) *DB {
	db := &DB{}
	for _, opt := range opts {
		opt(db)
	}
	if db.store == nil {
		db.store = store.NewMemoryStore()
	}
	if db.ids == nil {
		db.ids = UUIDv7
	}
	if db.log == nil {
		db.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return db
}

// Close closes the backend.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.store.Close()
}

// Create stores props under key. If the key's id is empty a new one is
// generated. props is adopted as the stored record: its "id" field is set
// to the canonical key and the caller must not modify it afterwards.
func (db *DB) Create(key string, props Record) (*Result, error) {
	k, err := parseKey("create", key)
	if err != nil {
		return nil, db.fail(err)
	}
	if props == nil {
		props = Record{}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if k.ID == "" {
		id, err := db.ids.NewID()
		if err != nil {
			return nil, db.fail(&Error{Op: "create", Key: key, Err: fmt.Errorf("generate id: %w", err)})
		}
		if id == "" {
			return nil, db.fail(&Error{Op: "create", Key: key, Err: ErrInvalidKey, msg: "generated id is empty"})
		}
		k.ID = id
	}

	existing, err := db.store.Get(k.Collection, k.ID)
	if err != nil {
		return nil, db.fail(&Error{Op: "create", Key: k.String(), Err: err})
	}
	if existing != nil {
		return nil, db.fail(&Error{Op: "create", Key: k.String(), Err: ErrAlreadyExists})
	}

	prevID, hadID := props[idField]
	props[idField] = k.String()
	if err := db.store.Put(k.Collection, k.ID, props); err != nil {
		// Nothing was stored, so hand the caller's map back untouched.
		if hadID {
			props[idField] = prevID
		} else {
			delete(props, idField)
		}
		return nil, db.fail(&Error{Op: "create", Key: k.String(), Err: err})
	}
	db.log.Debug("record created", "op", "create", "key", k.String())
	return newResult(ActionCreated, k, props.Clone()), nil
}

// ReadOption configures a Read.
type ReadOption func(*readOptions)

type readOptions struct {
	where  map[string]any
	fields []string
}

// WithWhere passes a filter clause. Filtering is not implemented yet: a
// non-empty clause makes Read fail with ErrNotImplemented.
func WithWhere(where map[string]any) ReadOption {
	return func(o *readOptions) { o.where = where }
}

// WithFields restricts the result to the named fields. Every field must
// exist on the record, otherwise Read fails with ErrFieldNotFound.
func WithFields(fields ...string) ReadOption {
	return func(o *readOptions) { o.fields = append(o.fields, fields...) }
}

// Read returns the record at key, or the requested projection of it.
// A missing collection fails with ErrCollectionNotFound; a missing id in
// an existing collection fails with ErrRecordNotFound.
func (db *DB) Read(key string, opts ...ReadOption) (*Result, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	k, err := parseRecordKey("read", key)
	if err != nil {
		return nil, db.fail(err)
	}
	if len(o.where) > 0 {
		return nil, db.fail(&Error{Op: "read", Key: key, Err: ErrNotImplemented, msg: "where clause filtering"})
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	ok, err := db.store.HasCollection(k.Collection)
	if err != nil {
		return nil, db.fail(&Error{Op: "read", Key: key, Err: err})
	}
	if !ok {
		return nil, db.fail(&Error{Op: "read", Key: key, Err: ErrCollectionNotFound})
	}
	doc, err := db.store.Get(k.Collection, k.ID)
	if err != nil {
		return nil, db.fail(&Error{Op: "read", Key: key, Err: err})
	}
	if doc == nil {
		return nil, db.fail(&Error{Op: "read", Key: key, Err: ErrRecordNotFound})
	}

	rec := Record(doc)
	if len(o.fields) == 0 {
		return newResult(ActionRead, k, rec.Clone()), nil
	}
	projected := make(Record, len(o.fields))
	for _, f := range o.fields {
		v, ok := rec[f]
		if !ok {
			return nil, db.fail(&Error{Op: "read", Key: key, Field: f, Err: ErrFieldNotFound})
		}
		projected[f] = cloneValue(v)
	}
	return newResult(ActionRead, k, projected), nil
}

// Update shallow-merges patch into the record at key and returns the
// merged record. Fields absent from patch are kept. The "id" field cannot
// be changed; a patched id is overwritten with the canonical key.
// A missing collection and a missing id both fail with ErrRecordNotFound.
func (db *DB) Update(key string, patch Record) (*Result, error) {
	k, err := parseRecordKey("update", key)
	if err != nil {
		return nil, db.fail(err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	doc, err := db.store.Get(k.Collection, k.ID)
	if err != nil {
		return nil, db.fail(&Error{Op: "update", Key: key, Err: err})
	}
	if doc == nil {
		return nil, db.fail(&Error{Op: "update", Key: key, Err: ErrRecordNotFound})
	}
	for f, v := range patch {
		doc[f] = cloneValue(v)
	}
	doc[idField] = k.String()
	if err := db.store.Put(k.Collection, k.ID, doc); err != nil {
		return nil, db.fail(&Error{Op: "update", Key: key, Err: err})
	}
	db.log.Debug("record updated", "op", "update", "key", k.String(), "fields", len(patch))
	return newResult(ActionUpdated, k, Record(doc).Clone()), nil
}

// Delete removes the record at key. The collection itself is kept even
// when it becomes empty. A missing collection and a missing id both fail
// with ErrRecordNotFound.
func (db *DB) Delete(key string) (*Result, error) {
	k, err := parseRecordKey("delete", key)
	if err != nil {
		return nil, db.fail(err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	existed, err := db.store.Delete(k.Collection, k.ID)
	if err != nil {
		return nil, db.fail(&Error{Op: "delete", Key: key, Err: err})
	}
	if !existed {
		return nil, db.fail(&Error{Op: "delete", Key: key, Err: ErrRecordNotFound})
	}
	db.log.Debug("record deleted", "op", "delete", "key", k.String())
	return newResult(ActionDeleted, k, nil), nil
}

// Entries returns a snapshot of every record: collections in creation
// order, records in insertion order. Records are copies.
func (db *DB) Entries() ([]Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	names, err := db.store.ListCollections()
	if err != nil {
		return nil, db.fail(&Error{Op: "entries", Err: err})
	}
	entries := []Entry{}
	for _, name := range names {
		docs, err := db.store.GetAll(name)
		if err != nil {
			return nil, db.fail(&Error{Op: "entries", Key: name + ":", Err: err})
		}
		for _, d := range docs {
			entries = append(entries, Entry{
				Key:    Key{Collection: name, ID: d.ID}.String(),
				Record: Record(d.Data).Clone(),
			})
		}
	}
	return entries, nil
}

// Collections returns collection names in creation order, including
// collections whose records have all been deleted.
func (db *DB) Collections() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	names, err := db.store.ListCollections()
	if err != nil {
		return nil, db.fail(&Error{Op: "collections", Err: err})
	}
	return names, nil
}

// Len returns the number of records across all collections.
func (db *DB) Len() (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n, err := db.store.Count()
	if err != nil {
		return 0, db.fail(&Error{Op: "len", Err: err})
	}
	return n, nil
}

func newResult(action Action, k Key, data Record) *Result {
	return &Result{
		Data: data,
		Metadata: Metadata{
			Action:  action,
			Key:     k.String(),
			Message: fmt.Sprintf("%s record with ID %q", action, k.String()),
		},
	}
}

func (db *DB) fail(err error) error {
	db.log.Debug("operation failed", "err", err)
	return err
}
