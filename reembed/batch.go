package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/hangraph/hangraph/ai"
	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// BatchProcessor regenerates embeddings for batches of archive entries.
type BatchProcessor struct {
	archive        storage.ArchiveRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(archive storage.ArchiveRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		archive:        archive,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds the query and response text of each entry, stamps the
// embedder's model version, and updates the entries in place. Vectors are
// normalized after embedding for cosine similarity.
func (bp *BatchProcessor) Process(ctx context.Context, entries []*core.ArchiveEntry) error {
	if len(entries) == 0 {
		return nil
	}

	// Query and response texts interleaved: entry i owns texts 2i and 2i+1.
	texts := make([]string, 0, len(entries)*2)
	for _, entry := range entries {
		texts = append(texts, entry.QueryText, entry.ResponseText)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	modelVersion := bp.embedder.ModelVersion()
	for i, entry := range entries {
		entry.QueryVector = NormalizeVector(embeddings[2*i])
		entry.ResponseVector = NormalizeVector(embeddings[2*i+1])
		entry.ModelVersion = modelVersion
	}

	if _, err := bp.archive.UpdateEntries(ctx, entries...); err != nil {
		return fmt.Errorf("failed to update entries: %w", err)
	}
	return nil
}
