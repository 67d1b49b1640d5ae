// Package search ranks a tenant's stored chunks against a query by cosine
// similarity and assembles ranked results into a character-budgeted context
// block for prompt injection.
//
// Ranking is a deliberate brute-force scan of the tenant's rows. At the data
// volumes one chatbot's knowledge base reaches this is cheap, and it keeps
// the store free of ANN index maintenance.
package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/chatforge/rag/internal/models"
	"github.com/chatforge/rag/pkg/embedder"
	"github.com/chatforge/rag/pkg/store"
)

const DefaultLimit = 5

type Engine struct {
	chunks store.ChunkStore
	embed  *embedder.Generator
	logger *zap.Logger
}

func NewEngine(chunks store.ChunkStore, embed *embedder.Generator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{chunks: chunks, embed: embed, logger: logger}
}

// Search embeds query, scans tenantID's chunks, and returns those scoring at
// least threshold, best first, at most limit of them. Chunks embedded with a
// different backend than the query (detected by vector length) are skipped
// and logged instead of being ranked on garbage scores. Equal scores keep
// storage order. An empty result is not an error.
func (e *Engine) Search(ctx context.Context, tenantID, query string, limit int, threshold float32) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	qvec := e.embed.Embed(ctx, query)

	rows, err := e.chunks.ChunksByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load chunks for tenant %s: %w", tenantID, err)
	}

	results := make([]models.SearchResult, 0, len(rows))
	skipped := 0
	for _, ch := range rows {
		if len(ch.Embedding) != len(qvec) {
			skipped++
			continue
		}
		sim := Cosine(qvec, ch.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, models.SearchResult{
			Content:    ch.Content,
			Similarity: sim,
			Metadata:   ch.Metadata,
		})
	}
	if skipped > 0 {
		e.logger.Warn("skipped chunks embedded with a different backend",
			zap.String("tenant_id", tenantID),
			zap.Int("skipped", skipped),
			zap.Int("query_dim", len(qvec)))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
