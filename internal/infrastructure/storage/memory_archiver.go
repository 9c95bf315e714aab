package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/shopx/backoffice/internal/application/admin"
)

// MemoryConfigArchiver keeps export documents in memory. Used in
// development when no object storage is configured.
type MemoryConfigArchiver struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryConfigArchiver creates an empty in-memory archiver
func NewMemoryConfigArchiver() *MemoryConfigArchiver {
	return &MemoryConfigArchiver{
		docs: make(map[string][]byte),
	}
}

// Archive stores a copy of the document under the given key
func (a *MemoryConfigArchiver) Archive(_ context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	a.docs[key] = buf

	return "memory://" + key, nil
}

// Get returns an archived document by key
func (a *MemoryConfigArchiver) Get(key string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.docs[key]
	return data, ok
}

// Ensure MemoryConfigArchiver implements ConfigArchiver
var _ admin.ConfigArchiver = (*MemoryConfigArchiver)(nil)
