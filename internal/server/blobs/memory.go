package blobs

import (
	"bytes"
	"context"
	"sync"

	"github.com/dmitrijs2005/ordo/internal/common"
	"github.com/dmitrijs2005/ordo/internal/server/models"
)

// MemoryStore is an in-process Store used when no bucket is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]models.Image
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]models.Image{}}
}

func (m *MemoryStore) Put(_ context.Context, key string, img models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = models.Image{MimeType: img.MimeType, Data: bytes.Clone(img.Data)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (models.Image, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.data[key]
	if !ok {
		return models.Image{}, common.ErrorNotFound
	}
	return models.Image{MimeType: img.MimeType, Data: bytes.Clone(img.Data)}, nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
