package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stevemurr/simple-kv/store"
)

// runStoreTests runs a common test suite against any Store implementation.
func runStoreTests(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("GetAll empty", func(t *testing.T) {
		docs, err := s.GetAll("test")
		if err != nil {
			t.Fatal(err)
		}
		if len(docs) != 0 {
			t.Fatalf("expected 0 docs, got %d", len(docs))
		}
	})

	t.Run("HasCollection before create", func(t *testing.T) {
		ok, err := s.HasCollection("col1")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("expected col1 to be absent")
		}
	})

	t.Run("Put and Get", func(t *testing.T) {
		doc := map[string]any{"title": "hello", "count": float64(42)}
		if err := s.Put("col1", "k1", doc); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get("col1", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			t.Fatal("expected doc, got nil")
		}
		if got["title"] != "hello" {
			t.Fatalf("expected title=hello, got %v", got["title"])
		}
		if got["count"] != float64(42) {
			t.Fatalf("expected count=42, got %v", got["count"])
		}
		ok, err := s.HasCollection("col1")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected Put to create col1")
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		got, err := s.Get("col1", "missing")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
		got, err = s.Get("nope", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Fatalf("expected nil for missing collection, got %v", got)
		}
	})

	t.Run("Put overwrites in place", func(t *testing.T) {
		if err := s.Put("col1", "k2", map[string]any{"title": "second"}); err != nil {
			t.Fatal(err)
		}
		if err := s.Put("col1", "k1", map[string]any{"title": "updated"}); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get("col1", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if got["title"] != "updated" {
			t.Fatalf("expected title=updated, got %v", got["title"])
		}
		docs, err := s.GetAll("col1")
		if err != nil {
			t.Fatal(err)
		}
		if len(docs) != 2 {
			t.Fatalf("expected 2 docs, got %d", len(docs))
		}
		if docs[0].ID != "k1" || docs[1].ID != "k2" {
			t.Fatalf("expected insertion order [k1 k2], got [%s %s]", docs[0].ID, docs[1].ID)
		}
	})

	t.Run("Count", func(t *testing.T) {
		n, err := s.Count()
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Fatalf("expected 2 docs, got %d", n)
		}
	})

	t.Run("Delete existing", func(t *testing.T) {
		existed, err := s.Delete("col1", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if !existed {
			t.Fatal("expected existed=true")
		}
		got, err := s.Get("col1", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Fatal("expected nil after delete")
		}
	})

	t.Run("Delete missing", func(t *testing.T) {
		existed, err := s.Delete("col1", "nope")
		if err != nil {
			t.Fatal(err)
		}
		if existed {
			t.Fatal("expected existed=false")
		}
		existed, err = s.Delete("nope", "k1")
		if err != nil {
			t.Fatal(err)
		}
		if existed {
			t.Fatal("expected existed=false for missing collection")
		}
	})

	t.Run("Empty collection survives", func(t *testing.T) {
		if _, err := s.Delete("col1", "k2"); err != nil {
			t.Fatal(err)
		}
		ok, err := s.HasCollection("col1")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("expected col1 to remain after its last delete")
		}
	})

	t.Run("ListCollections", func(t *testing.T) {
		if err := s.CreateCollection("col0"); err != nil {
			t.Fatal(err)
		}
		if err := s.CreateCollection("col1"); err != nil {
			t.Fatal(err)
		}
		names, err := s.ListCollections()
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 2 || names[0] != "col1" || names[1] != "col0" {
			t.Fatalf("expected [col1 col0], got %v", names)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := store.NewMemoryStore()
	runStoreTests(t, s)
}

func TestSqliteStore(t *testing.T) {
	s, err := store.NewSqliteStore("")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runStoreTests(t, s)
}

func TestSqliteStoreFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSqliteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runStoreTests(t, s)
}

func TestMemoryStoreAdoptsDocuments(t *testing.T) {
	s := store.NewMemoryStore()
	doc := map[string]any{"n": 1}
	if err := s.Put("c", "k", doc); err != nil {
		t.Fatal(err)
	}
	doc["n"] = 2
	got, _ := s.Get("c", "k")
	if got["n"] != 2 {
		t.Fatalf("expected adopted map to be stored by reference, got %v", got["n"])
	}
}

func TestSqliteStoreRejectsUnencodable(t *testing.T) {
	s, err := store.NewSqliteStore("")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Put("c", "k", map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected encode error")
	}
}

func TestFactory(t *testing.T) {
	tests := []struct {
		backend string
	}{
		{"sqlite"},
		{"memory"},
		{""},
	}
	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			s, err := store.New(tc.backend, "")
			if err != nil {
				t.Fatal(err)
			}
			defer s.Close()
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := store.New("redis", "")
		if err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
