// Package store persists documents and their embedded chunks. Two
// implementations exist: Postgres (pgvector column, production) and Memory
// (tests and keyless local runs). Similarity ranking happens in the search
// layer; stores only scan, insert and delete.
package store

import (
	"context"
	"errors"

	"github.com/chatforge/rag/internal/models"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the platform's content table as the RAG core sees it:
// a key-value load plus a flag update. Document rows are created by the
// ingestion API layer; CreateDocument exists for that layer and for tools.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc models.Document) error
	Document(ctx context.Context, id string) (models.Document, error)
	// SetFlags records processing progress: processed flips once chunking
	// ran, vectorized once every chunk was embedded and persisted.
	SetFlags(ctx context.Context, id string, processed, vectorized bool) error
}

// ChunkStore holds embedded chunks, partitioned by tenant. Search never
// crosses tenants, so the only read is a full scan of one tenant's rows.
type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []models.Chunk) error
	ChunksByTenant(ctx context.Context, tenantID string) ([]models.Chunk, error)
	// DeleteByDocument removes a document's chunks, used before re-ingestion
	// and on document deletion.
	DeleteByDocument(ctx context.Context, documentID string) error
}
