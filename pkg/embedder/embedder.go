// Package embedder turns text into fixed-length vectors. With a Google
// Generative AI credential it uses the remote embedding model; without one,
// or whenever the remote call fails, it degrades to a deterministic local
// hashed embedding. Embed never returns an error, which keeps every caller's
// failure handling trivial.
package embedder

import (
	"context"

	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

const (
	// RemoteDim is the native dimensionality of the remote embedding model.
	RemoteDim = 768

	ProviderGoogle = "googleai"
	ProviderLocal  = "local"

	DefaultModel = "embedding-001"
)

// Remote is the surface this package needs from a remote embedding backend.
// *googleai.GoogleAI satisfies it.
type Remote interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

type Config struct {
	// APIKey for the remote model. Empty means local-only embedding.
	APIKey string
	// Model overrides the default remote embedding model.
	Model string
}

// Generator produces embeddings. Construct one per credential; there is no
// process-wide shared client, so per-tenant keys and test doubles both plug
// in through the constructor.
type Generator struct {
	remote   Remote
	provider string
	dim      int
	logger   *zap.Logger
}

// New builds a Generator. It never fails: an unusable credential is logged
// and the generator runs local-only.
func New(ctx context.Context, config Config, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{provider: ProviderLocal, dim: LocalDim, logger: logger}

	if config.APIKey == "" {
		return g
	}
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultEmbeddingModel(model))
	if err != nil {
		logger.Warn("remote embedding client unavailable, running local-only",
			zap.String("model", model), zap.Error(err))
		return g
	}
	g.remote = client
	g.provider = ProviderGoogle
	g.dim = RemoteDim
	return g
}

// NewWithRemote wires an explicit remote backend. Used by callers that
// manage their own client, and by tests.
func NewWithRemote(remote Remote, dim int, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if remote == nil {
		return &Generator{provider: ProviderLocal, dim: LocalDim, logger: logger}
	}
	if dim <= 0 {
		dim = RemoteDim
	}
	return &Generator{remote: remote, provider: ProviderGoogle, dim: dim, logger: logger}
}

// Provider names the backend this generator prefers. Individual vectors may
// still come from the local fallback when the remote call fails; compare a
// vector's length against Dimension to tell.
func (g *Generator) Provider() string { return g.provider }

// Dimension is the vector length the preferred backend produces.
func (g *Generator) Dimension() int { return g.dim }

// Embed returns a vector for text. Remote errors are logged and absorbed by
// falling back to the local embedding, so the returned slice is always
// usable and the method never fails.
func (g *Generator) Embed(ctx context.Context, text string) []float32 {
	if g.remote != nil {
		vecs, err := g.remote.CreateEmbedding(ctx, []string{text})
		if err == nil && len(vecs) > 0 && len(vecs[0]) > 0 {
			return vecs[0]
		}
		if err != nil {
			g.logger.Warn("remote embedding failed, falling back to local",
				zap.Int("text_len", len(text)), zap.Error(err))
		} else {
			g.logger.Warn("remote embedding returned no vector, falling back to local",
				zap.Int("text_len", len(text)))
		}
	}
	return LocalEmbed(text)
}
