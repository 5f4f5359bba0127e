package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps blobs in process memory. It is meant for tests and
// single-process demos.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, r io.Reader, originalName string) (string, int64, error) {
	data, err := io.ReadAll(ctxReader{ctx: ctx, r: r})
	if err != nil {
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	name := NewStoredName(originalName)

	m.mu.Lock()
	m.blobs[name] = data
	m.mu.Unlock()

	return name, int64(len(data)), nil
}

func (m *MemoryStore) Get(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	m.mu.RLock()
	data, ok := m.blobs[storedName]
	m.mu.RUnlock()

	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", storedName, ErrBlobMissing)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *MemoryStore) Delete(ctx context.Context, storedName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.blobs, storedName)
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

// Has reports whether a blob exists under storedName.
func (m *MemoryStore) Has(storedName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[storedName]
	return ok
}
