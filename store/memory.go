package store

import "slices"

type bucket struct {
	ids  []string
	docs map[string]map[string]any
}

// MemoryStore keeps everything in Go maps. Data is lost on restart.
//
// Documents are stored by reference: the map passed to Put is adopted and
// Get returns it as is. Callers that hand records out must copy them.
type MemoryStore struct {
	order   []string
	buckets map[string]*bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*bucket)}
}

func (m *MemoryStore) HasCollection(collection string) (bool, error) {
	_, ok := m.buckets[collection]
	return ok, nil
}

func (m *MemoryStore) CreateCollection(collection string) error {
	m.bucket(collection)
	return nil
}

// bucket returns the named bucket, creating it if absent.
func (m *MemoryStore) bucket(collection string) *bucket {
	b, ok := m.buckets[collection]
	if !ok {
		b = &bucket{docs: make(map[string]map[string]any)}
		m.buckets[collection] = b
		m.order = append(m.order, collection)
	}
	return b
}

func (m *MemoryStore) GetAll(collection string) ([]Document, error) {
	b, ok := m.buckets[collection]
	if !ok {
		return []Document{}, nil
	}
	result := make([]Document, 0, len(b.ids))
	for _, id := range b.ids {
		result = append(result, Document{ID: id, Data: b.docs[id]})
	}
	return result, nil
}

func (m *MemoryStore) Get(collection, id string) (map[string]any, error) {
	b, ok := m.buckets[collection]
	if !ok {
		return nil, nil
	}
	doc, ok := b.docs[id]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (m *MemoryStore) Put(collection, id string, data map[string]any) error {
	b := m.bucket(collection)
	if _, exists := b.docs[id]; !exists {
		b.ids = append(b.ids, id)
	}
	b.docs[id] = data
	return nil
}

func (m *MemoryStore) Delete(collection, id string) (bool, error) {
	b, ok := m.buckets[collection]
	if !ok {
		return false, nil
	}
	if _, exists := b.docs[id]; !exists {
		return false, nil
	}
	delete(b.docs, id)
	if i := slices.Index(b.ids, id); i >= 0 {
		b.ids = slices.Delete(b.ids, i, i+1)
	}
	return true, nil
}

func (m *MemoryStore) ListCollections() ([]string, error) {
	return slices.Clone(m.order), nil
}

func (m *MemoryStore) Count() (int, error) {
	n := 0
	for _, b := range m.buckets {
		n += len(b.docs)
	}
	return n, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
