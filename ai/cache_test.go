package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder implements Embedder for cache tests.
type countingEmbedder struct {
	mu    sync.Mutex
	calls int
	model string
	fail  bool
}

func (e *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.fail {
		return nil, errors.New("provider error")
	}
	return []float32{float32(len(text)), 0.5}, nil
}

func (e *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.fail {
		return nil, errors.New("provider error")
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = []float32{float32(len(text)), 0.5}
	}
	return result, nil
}

func (e *countingEmbedder) ModelVersion() string {
	if e.model == "" {
		return "counting-v1"
	}
	return e.model
}

func (e *countingEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func TestCachingEmbedder_EmbedText(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCachingEmbedder(inner, 16)
	require.NoError(t, err)

	ctx := context.Background()

	first, err := cached.EmbedText(ctx, "오늘은 맑아요")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.callCount())

	second, err := cached.EmbedText(ctx, "오늘은 맑아요")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.callCount(), "second call must be served from cache")
	assert.Equal(t, first, second)

	_, err = cached.EmbedText(ctx, "다른 텍스트")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.callCount())
}

func TestCachingEmbedder_EmbedTexts_PartialHit(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCachingEmbedder(inner, 16)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = cached.EmbedText(ctx, "a")
	require.NoError(t, err)

	vectors, err := cached.EmbedTexts(ctx, []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{1, 0.5}, vectors[0])
	assert.Equal(t, []float32{2, 0.5}, vectors[1])
	assert.Equal(t, []float32{3, 0.5}, vectors[2])

	// One EmbedText call plus one batch call for the two misses.
	assert.Equal(t, 2, inner.callCount())

	// Everything cached now.
	_, err = cached.EmbedTexts(ctx, []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.callCount())
}

func TestCachingEmbedder_ErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{fail: true}
	cached, err := NewCachingEmbedder(inner, 16)
	require.NoError(t, err)

	_, err = cached.EmbedText(context.Background(), "text")
	assert.Error(t, err)

	inner.fail = false
	vector, err := cached.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	assert.NotEmpty(t, vector)
}

func TestCachingEmbedder_ZeroSizeUnwrapped(t *testing.T) {
	inner := &countingEmbedder{}
	cached, err := NewCachingEmbedder(inner, 0)
	require.NoError(t, err)
	assert.Equal(t, Embedder(inner), cached)
}

func TestCachingEmbedder_NilEmbedder(t *testing.T) {
	_, err := NewCachingEmbedder(nil, 16)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestCachingEmbedder_ModelVersion(t *testing.T) {
	inner := &countingEmbedder{model: "embeddinggemma"}
	cached, err := NewCachingEmbedder(inner, 2)
	require.NoError(t, err)
	assert.Equal(t, "embeddinggemma", cached.ModelVersion())
}
