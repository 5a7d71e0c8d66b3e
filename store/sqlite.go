package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = ":memory:"

// SqliteStore stores all collections in a single SQLite database.
//
// Tables:
//
//	collections(seq, name)                UNIQUE (name)
//	documents(seq, collection, key, data) UNIQUE (collection, key)
//
// The seq columns preserve creation order for enumeration. Documents are
// JSON encoded, so numbers read back as float64.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens the database at dsn. An empty dsn means MemoryDSN.
// The pool is pinned to one connection: every connection to ":memory:"
// would otherwise get its own empty database.
func NewSqliteStore(dsn string) (*SqliteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	)`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		data TEXT NOT NULL,
		UNIQUE (collection, key)
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) HasCollection(collection string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM collections WHERE name = ?", collection).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SqliteStore) CreateCollection(collection string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO collections (name) VALUES (?)", collection)
	return err
}

func (s *SqliteStore) GetAll(collection string) ([]Document, error) {
	rows, err := s.db.Query(
		"SELECT key, data FROM documents WHERE collection = ? ORDER BY seq",
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []Document{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode %s:%s: %w", collection, key, err)
		}
		result = append(result, Document{ID: key, Data: doc})
	}
	return result, rows.Err()
}

func (s *SqliteStore) Get(collection, id string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRow(
		"SELECT data FROM documents WHERE collection = ? AND key = ?",
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *SqliteStore) Put(collection, id string, data map[string]any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.CreateCollection(collection); err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (collection, key, data) VALUES (?, ?, ?)
		 ON CONFLICT(collection, key) DO UPDATE SET data = excluded.data`,
		collection, id, string(b),
	)
	return err
}

func (s *SqliteStore) Delete(collection, id string) (bool, error) {
	res, err := s.db.Exec(
		"DELETE FROM documents WHERE collection = ? AND key = ?",
		collection, id,
	)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *SqliteStore) ListCollections() ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM collections ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SqliteStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}
