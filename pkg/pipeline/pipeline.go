// Package pipeline turns a stored document into embedded chunks: load,
// split, embed each chunk with bounded concurrency, persist the batch, then
// flip the document's processing flags.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chatforge/rag/internal/models"
	"github.com/chatforge/rag/pkg/chunker"
	"github.com/chatforge/rag/pkg/embedder"
	"github.com/chatforge/rag/pkg/store"
)

const DefaultConcurrency = 4

type Config struct {
	ChunkSize    int
	ChunkOverlap int
	MinLength    int
	// Concurrency bounds the number of in-flight embedding calls per
	// ingestion.
	Concurrency int
	// OnProgress, when set, is called after each chunk is embedded. It may
	// be called from multiple goroutines.
	OnProgress func(done, total int)
}

type Pipeline struct {
	docs     store.DocumentStore
	chunks   store.ChunkStore
	embed    *embedder.Generator
	splitter *chunker.Splitter
	config   Config
	logger   *zap.Logger
}

func New(docs store.DocumentStore, chunks store.ChunkStore, embed *embedder.Generator, config Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	return &Pipeline{
		docs:   docs,
		chunks: chunks,
		embed:  embed,
		splitter: chunker.NewWithConfig(chunker.Config{
			ChunkSize:    config.ChunkSize,
			ChunkOverlap: config.ChunkOverlap,
			MinLength:    config.MinLength,
		}),
		config: config,
		logger: logger,
	}
}

// Ingest chunks and embeds the document's current content. An empty document
// is a terminal state, not an error: processed=true, vectorized=false, no
// chunks. On any persistence failure the document is marked processed but
// not vectorized and the error returns to the caller. Ingest does not purge
// previous chunks; use Reingest when a document's content changed.
//
// apiKey, when non-empty, selects the remote embedding backend for this call
// only, which is how per-tenant credentials reach the embedder.
func (p *Pipeline) Ingest(ctx context.Context, documentID, apiKey string) error {
	doc, err := p.docs.Document(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if strings.TrimSpace(doc.Content) == "" {
		p.logger.Info("document has no content, nothing to embed",
			zap.String("document_id", documentID))
		return p.docs.SetFlags(ctx, documentID, true, false)
	}

	gen := p.embed
	if apiKey != "" {
		gen = embedder.New(ctx, embedder.Config{APIKey: apiKey}, p.logger)
	}

	if err := p.ingest(ctx, doc, gen); err != nil {
		if flagErr := p.docs.SetFlags(ctx, documentID, true, false); flagErr != nil {
			p.logger.Error("could not record failed vectorization",
				zap.String("document_id", documentID), zap.Error(flagErr))
		}
		return fmt.Errorf("ingest document %s: %w", documentID, err)
	}

	return p.docs.SetFlags(ctx, documentID, true, true)
}

// Reingest purges the document's existing chunks, then ingests from current
// content. The purge and the insert are separate store operations; a reader
// racing a reingest can observe the gap, which mirrors the flag discipline:
// vectorized only flips back to true once the new batch is fully written.
func (p *Pipeline) Reingest(ctx context.Context, documentID, apiKey string) error {
	if err := p.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("purge chunks for document %s: %w", documentID, err)
	}
	return p.Ingest(ctx, documentID, apiKey)
}

func (p *Pipeline) ingest(ctx context.Context, doc models.Document, gen *embedder.Generator) error {
	parts := p.splitter.Split(doc.Content)
	total := len(parts)
	if total == 0 {
		// Content below the minimum chunk length embeds nothing; the
		// document still counts as fully processed.
		p.logger.Info("document produced no chunks",
			zap.String("document_id", doc.ID), zap.Int("content_len", len(doc.Content)))
		return nil
	}

	chunks := make([]models.Chunk, total)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			vec := gen.Embed(gctx, part)
			provider, dim := provenance(gen, vec)
			chunks[i] = models.Chunk{
				ID:         uuid.NewString(),
				DocumentID: doc.ID,
				TenantID:   doc.TenantID,
				Content:    part,
				Embedding:  vec,
				Provider:   provider,
				Dim:        dim,
				Metadata: models.Metadata{
					"chunkIndex":     i,
					"totalChunks":    total,
					"sourceFileName": doc.FileName,
					"sourceType":     doc.SourceType,
				},
			}
			if p.config.OnProgress != nil {
				p.config.OnProgress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	// Embedding never fails; the group exists for the concurrency bound.
	_ = g.Wait()

	if err := p.chunks.InsertChunks(ctx, chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}
	p.logger.Info("document vectorized",
		zap.String("document_id", doc.ID),
		zap.String("tenant_id", doc.TenantID),
		zap.Int("chunks", total),
		zap.String("provider", chunks[0].Provider))
	return nil
}

// provenance records which backend actually produced vec. A generator with a
// remote backend can still hand back a local vector when the remote call
// failed; the vector length tells the two apart.
func provenance(gen *embedder.Generator, vec []float32) (string, int) {
	if len(vec) != gen.Dimension() {
		return embedder.ProviderLocal, len(vec)
	}
	return gen.Provider(), gen.Dimension()
}
