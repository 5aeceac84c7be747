package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps documents in process memory. It is safe for concurrent use.
// Documents are normalized through JSON on the way in, so values compare the same
// way they would after a round trip through any persistent backend.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Document)}
}

func (m *Memory) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want, err := Encode(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, doc := range m.collections[collection] {
		if matches(doc, want) {
			return clone(doc)
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want, err := Encode(filter)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for _, doc := range m.collections[collection] {
		if !matches(doc, want) {
			continue
		}
		c, err := clone(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Memory) InsertOne(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stored, err := clone(doc)
	if err != nil {
		return "", err
	}
	id, _ := stored[IDField].(string)
	if id == "" {
		id = uuid.NewString()
		stored[IDField] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection] = append(m.collections[collection], stored)
	return id, nil
}

func (m *Memory) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	want, err := Encode(filter)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc, want) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Close() error {
	return nil
}

// snapshot returns a deep copy of every collection.
func (m *Memory) snapshot() (map[string][]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]Document, len(m.collections))
	for name, docs := range m.collections {
		copies := make([]Document, 0, len(docs))
		for _, doc := range docs {
			c, err := clone(doc)
			if err != nil {
				return nil, err
			}
			copies = append(copies, c)
		}
		out[name] = copies
	}
	return out, nil
}

func (m *Memory) load(collections map[string][]Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections = collections
	if m.collections == nil {
		m.collections = make(map[string][]Document)
	}
}

func matches(doc, want Document) bool {
	for key, value := range want {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, value) {
			return false
		}
	}
	return true
}

func clone(doc Document) (Document, error) {
	c, err := Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	if c == nil {
		c = Document{}
	}
	return c, nil
}
