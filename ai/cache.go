package ai

import (
	"context"
	"log/slog"

	"github.com/hangraph/hangraph/core"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingEmbedder wraps an Embedder with an in-process LRU cache.
// Cache keys are content hashes scoped by model version, so a model change
// never serves stale vectors. The embedded LRU is safe for concurrent use.
type CachingEmbedder struct {
	next   Embedder
	cache  *lru.Cache[core.ID, []float32]
	logger *slog.Logger
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with an LRU cache of the given size.
// A size <= 0 returns next unwrapped.
func NewCachingEmbedder(next Embedder, size int) (Embedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if size <= 0 {
		return next, nil
	}

	cache, err := lru.New[core.ID, []float32](size)
	if err != nil {
		return nil, err
	}

	return &CachingEmbedder{
		next:   next,
		cache:  cache,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

func (c *CachingEmbedder) cacheKey(text string) core.ID {
	return core.IDFromContent(c.next.ModelVersion() + "\x00" + text)
}

// EmbedText returns a cached vector when available, otherwise delegates and
// caches the result.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if cached, ok := c.cache.Get(key); ok {
		c.logger.Debug("embedding cache hit", "length", len(text))
		return cloneVector(cached), nil
	}

	vector, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, cloneVector(vector))
	return vector, nil
}

// EmbedTexts serves cached vectors where possible and batch-embeds the rest.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := c.cache.Get(c.cacheKey(text)); ok {
			vectors[i] = cloneVector(cached)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	embedded, err := c.next.EmbedTexts(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missing) {
		return nil, ErrEmbeddingCountMismatch
	}

	for i, vector := range embedded {
		idx := missingIdx[i]
		vectors[idx] = vector
		c.cache.Add(c.cacheKey(texts[idx]), cloneVector(vector))
	}

	return vectors, nil
}

// ModelVersion delegates to the wrapped embedder.
func (c *CachingEmbedder) ModelVersion() string {
	return c.next.ModelVersion()
}

func cloneVector(vector []float32) []float32 {
	if len(vector) == 0 {
		return nil
	}
	clone := make([]float32, len(vector))
	copy(clone, vector)
	return clone
}
