package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/chatforge/rag/internal/models"
)

// Memory is an in-process implementation of both stores, used in tests and
// for local runs without Postgres. Chunks keep insertion order per tenant,
// matching the stable scan order the Postgres store provides.
type Memory struct {
	mu     sync.RWMutex
	docs   map[string]models.Document
	chunks []models.Chunk
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]models.Document)}
}

func (m *Memory) CreateDocument(_ context.Context, doc models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *Memory) Document(_ context.Context, id string) (models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return models.Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return doc, nil
}

func (m *Memory) SetFlags(_ context.Context, id string, processed, vectorized bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	doc.Processed = processed
	doc.Vectorized = vectorized
	m.docs[id] = doc
	return nil
}

func (m *Memory) InsertChunks(_ context.Context, chunks []models.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *Memory) ChunksByTenant(_ context.Context, tenantID string) ([]models.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Chunk
	for _, ch := range m.chunks {
		if ch.TenantID == tenantID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (m *Memory) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.chunks[:0]
	for _, ch := range m.chunks {
		if ch.DocumentID != documentID {
			kept = append(kept, ch)
		}
	}
	m.chunks = kept
	return nil
}
