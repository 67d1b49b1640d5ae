package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/chatforge/rag/internal/models"
)

type PostgresConfig struct {
	ConnString     string
	DocumentsTable string
	ChunksTable    string
}

// Postgres backs both stores with one connection pool. Chunk embeddings live
// in a dimension-less pgvector column: chunks of different dimensionality
// (remote 768 vs local 384) coexist in one table, and there is no ANN index
// because ranking is a brute-force scan in the search layer.
type Postgres struct {
	pool      *pgxpool.Pool
	documents string
	chunks    string
	logger    *zap.Logger
}

func NewPostgres(ctx context.Context, config PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.DocumentsTable == "" {
		config.DocumentsTable = "documents"
	}
	if config.ChunksTable == "" {
		config.ChunksTable = "chunks"
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	p := &Postgres{
		pool:      pool,
		documents: config.DocumentsTable,
		chunks:    config.ChunksTable,
		logger:    logger,
	}
	if err := p.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) initialize(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	createDocuments := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			source_type TEXT NOT NULL DEFAULT 'text',
			file_name TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL DEFAULT '',
			processed BOOLEAN NOT NULL DEFAULT FALSE,
			vectorized BOOLEAN NOT NULL DEFAULT FALSE
		)`, p.documents)
	if _, err := p.pool.Exec(ctx, createDocuments); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}

	createChunks := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			tenant_id TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector,
			provider TEXT NOT NULL,
			dim INTEGER NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, p.chunks, p.documents)
	if _, err := p.pool.Exec(ctx, createChunks); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}

	createIndex := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s_tenant_idx ON %s (tenant_id)",
		p.chunks, p.chunks)
	if _, err := p.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("create tenant index: %w", err)
	}
	return nil
}

func (p *Postgres) CreateDocument(ctx context.Context, doc models.Document) error {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, tenant_id, source_type, file_name, content, processed, vectorized)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			processed = EXCLUDED.processed,
			vectorized = EXCLUDED.vectorized`, p.documents)
	_, err := p.pool.Exec(ctx, stmt,
		doc.ID, doc.TenantID, doc.SourceType, doc.FileName, doc.Content, doc.Processed, doc.Vectorized)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (p *Postgres) Document(ctx context.Context, id string) (models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, tenant_id, source_type, file_name, content, processed, vectorized
		FROM %s WHERE id = $1`, p.documents)

	var doc models.Document
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.TenantID, &doc.SourceType, &doc.FileName,
		&doc.Content, &doc.Processed, &doc.Vectorized)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("load document %s: %w", id, err)
	}
	return doc, nil
}

func (p *Postgres) SetFlags(ctx context.Context, id string, processed, vectorized bool) error {
	stmt := fmt.Sprintf("UPDATE %s SET processed = $2, vectorized = $3 WHERE id = $1", p.documents)
	tag, err := p.pool.Exec(ctx, stmt, id, processed, vectorized)
	if err != nil {
		return fmt.Errorf("update document flags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

func (p *Postgres) InsertChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, tenant_id, content, embedding, provider, dim, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, p.chunks)

	batch := &pgx.Batch{}
	for _, ch := range chunks {
		batch.Queue(stmt,
			ch.ID, ch.DocumentID, ch.TenantID, ch.Content,
			pgvector.NewVector(ch.Embedding), ch.Provider, ch.Dim, ch.Metadata)
	}

	results := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}
	p.logger.Debug("chunks persisted",
		zap.String("document_id", chunks[0].DocumentID), zap.Int("count", len(chunks)))
	return nil
}

func (p *Postgres) ChunksByTenant(ctx context.Context, tenantID string) ([]models.Chunk, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, tenant_id, content, embedding, provider, dim, metadata
		FROM %s WHERE tenant_id = $1
		ORDER BY created_at, id`, p.chunks)

	rows, err := p.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("scan chunks for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var ch models.Chunk
		var vec pgvector.Vector
		if err := rows.Scan(
			&ch.ID, &ch.DocumentID, &ch.TenantID, &ch.Content,
			&vec, &ch.Provider, &ch.Dim, &ch.Metadata); err != nil {
			return nil, fmt.Errorf("scan chunk row: %w", err)
		}
		ch.Embedding = vec.Slice()
		chunks = append(chunks, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read chunk rows: %w", err)
	}
	return chunks, nil
}

func (p *Postgres) DeleteByDocument(ctx context.Context, documentID string) error {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE document_id = $1", p.chunks)
	if _, err := p.pool.Exec(ctx, stmt, documentID); err != nil {
		return fmt.Errorf("delete chunks for document %s: %w", documentID, err)
	}
	return nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}
