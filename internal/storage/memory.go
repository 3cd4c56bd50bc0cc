package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps objects in process memory. Used by the memory storage
// driver in development and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

// NewMemoryStore creates an empty MemoryStore serving URLs under baseURL
func NewMemoryStore(baseURL string) *MemoryStore {
	if baseURL == "" {
		baseURL = "memory://payment-proofs"
	}
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (m *MemoryStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("read object %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return m.baseURL + "/" + escapeKey(key)
}

// Get returns a stored object
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}

// Len returns how many objects are stored
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// HealthCheck always succeeds
func (m *MemoryStore) HealthCheck(ctx context.Context) error { return nil }

var (
	_ BlobStore = (*MemoryStore)(nil)
	_ BlobStore = (*S3Store)(nil)
)
