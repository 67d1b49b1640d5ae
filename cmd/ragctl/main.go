// ragctl is an operator tool for the RAG core: ingest documents into a
// tenant's knowledge base and run searches against it.
//
//	ragctl -tenant bot-1 ingest ./manual.txt
//	ragctl -tenant bot-1 ingest-url https://docs.example.com/faq
//	ragctl -tenant bot-1 search "how do refunds work"
//	ragctl -tenant bot-1 context "how do refunds work"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/chatforge/rag/internal/models"
	"github.com/chatforge/rag/pkg/config"
	"github.com/chatforge/rag/pkg/embedder"
	"github.com/chatforge/rag/pkg/fetcher"
	"github.com/chatforge/rag/pkg/pipeline"
	"github.com/chatforge/rag/pkg/search"
	"github.com/chatforge/rag/pkg/store"
)

func main() {
	if err := run(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		tenant     string
		apiKey     string
		dbURL      string
		limit      int
		threshold  float64
		maxChars   int
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&tenant, "tenant", "", "tenant (chatbot) id")
	flag.StringVar(&apiKey, "api-key", "", "embedding API key (overrides config)")
	flag.StringVar(&dbURL, "db-url", "", "PostgreSQL connection string (overrides config)")
	flag.IntVar(&limit, "limit", 0, "max search results")
	flag.Float64Var(&threshold, "threshold", -1, "minimum similarity, 0..1")
	flag.IntVar(&maxChars, "max-chars", 0, "context budget in characters")
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		return fmt.Errorf("usage: ragctl [flags] ingest|ingest-url|ingest-text|search|context <arg>")
	}
	if tenant == "" {
		return fmt.Errorf("-tenant is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Embedding.APIKey = apiKey
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if limit <= 0 {
		limit = cfg.Search.Limit
	}
	if threshold < 0 {
		threshold = float64(cfg.Search.Threshold)
	}
	if maxChars <= 0 {
		maxChars = cfg.Context.MaxChars
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}

	ctx := context.Background()

	pg, err := store.NewPostgres(ctx, store.PostgresConfig{
		ConnString:     cfg.Database.URL,
		DocumentsTable: cfg.Database.DocumentsTable,
		ChunksTable:    cfg.Database.ChunksTable,
	}, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	gen := embedder.New(ctx, embedder.Config{
		APIKey: cfg.Embedding.APIKey,
		Model:  cfg.Embedding.Model,
	}, logger)
	if gen.Provider() == embedder.ProviderLocal {
		color.Yellow("no API key configured: using local fallback embeddings")
	}

	switch args[0] {
	case "ingest":
		if len(args) < 2 {
			return fmt.Errorf("usage: ragctl ingest <file>")
		}
		return ingestFile(ctx, cfg, pg, gen, tenant, args[1])
	case "ingest-url":
		if len(args) < 2 {
			return fmt.Errorf("usage: ragctl ingest-url <url>")
		}
		return ingestURL(ctx, cfg, pg, gen, tenant, args[1])
	case "ingest-text":
		if len(args) < 2 {
			return fmt.Errorf("usage: ragctl ingest-text <text>")
		}
		text := strings.Join(args[1:], " ")
		return ingest(ctx, cfg, pg, gen, models.Document{
			ID: uuid.NewString(), TenantID: tenant, SourceType: "text", Content: text,
		})
	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: ragctl search <query>")
		}
		query := strings.Join(args[1:], " ")
		return runSearch(ctx, pg, gen, tenant, query, limit, float32(threshold))
	case "context":
		if len(args) < 2 {
			return fmt.Errorf("usage: ragctl context <query>")
		}
		query := strings.Join(args[1:], " ")
		engine := search.NewEngine(pg, gen, nil)
		block, err := engine.Context(ctx, tenant, query, maxChars)
		if err != nil {
			return err
		}
		if block == "" {
			color.Yellow("no context cleared the threshold")
			return nil
		}
		fmt.Println(block)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func ingestFile(ctx context.Context, cfg *config.Config, pg *store.Postgres, gen *embedder.Generator, tenant, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return ingest(ctx, cfg, pg, gen, models.Document{
		ID:         uuid.NewString(),
		TenantID:   tenant,
		SourceType: "file",
		FileName:   filepath.Base(path),
		Content:    string(data),
	})
}

func ingestURL(ctx context.Context, cfg *config.Config, pg *store.Postgres, gen *embedder.Generator, tenant, rawURL string) error {
	f := fetcher.NewWithConfig(fetcher.Config{
		RateLimit: cfg.Fetcher.RateLimit,
		Timeout:   time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second,
	}, nil)

	title, text, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if title == "" {
		title = rawURL
	}
	return ingest(ctx, cfg, pg, gen, models.Document{
		ID:         uuid.NewString(),
		TenantID:   tenant,
		SourceType: "url",
		FileName:   title,
		Content:    text,
	})
}

func ingest(ctx context.Context, cfg *config.Config, pg *store.Postgres, gen *embedder.Generator, doc models.Document) error {
	if err := pg.CreateDocument(ctx, doc); err != nil {
		return err
	}

	var (
		mu  sync.Mutex
		bar *progressbar.ProgressBar
	)
	p := pipeline.New(pg, pg, gen, pipeline.Config{
		ChunkSize:    cfg.Chunker.ChunkSize,
		ChunkOverlap: cfg.Chunker.ChunkOverlap,
		MinLength:    cfg.Chunker.MinLength,
		OnProgress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if bar == nil {
				bar = progressbar.Default(int64(total), "embedding")
			}
			_ = bar.Set(done)
		},
	}, nil)

	if err := p.Ingest(ctx, doc.ID, ""); err != nil {
		return err
	}
	fmt.Println()
	color.Green("ingested document %s (%d chars)", doc.ID, len(doc.Content))
	return nil
}

func runSearch(ctx context.Context, pg *store.Postgres, gen *embedder.Generator, tenant, query string, limit int, threshold float32) error {
	engine := search.NewEngine(pg, gen, nil)
	results, err := engine.Search(ctx, tenant, query, limit, threshold)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		color.Yellow("no results above threshold %.2f", threshold)
		return nil
	}

	for i, r := range results {
		color.Cyan("%d. similarity %.3f", i+1, r.Similarity)
		if name, ok := r.Metadata["sourceFileName"].(string); ok && name != "" {
			color.White("   source: %s", name)
		}
		fmt.Printf("   %s\n\n", snippet(r.Content, 200))
	}
	return nil
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
