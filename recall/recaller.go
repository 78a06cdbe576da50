package recall

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hangraph/hangraph/ai"
	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// Recaller is the read path over a user's archive and association graph.
type Recaller struct {
	archive  storage.ArchiveRepository
	graph    storage.GraphStore
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Recaller.
type Option func(*Recaller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recaller) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRecaller creates a new recaller.
func NewRecaller(
	archive storage.ArchiveRepository,
	graph storage.GraphStore,
	embedder ai.Embedder,
	opts ...Option,
) (*Recaller, error) {
	if archive == nil {
		return nil, ErrArchiveRequired
	}
	if graph == nil {
		return nil, ErrGraphRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Recaller{
		archive:  archive,
		graph:    graph,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Exchanges embeds the query and returns up to limit archived exchanges for
// the user, ranked by query similarity.
func (r *Recaller) Exchanges(ctx context.Context, userID, query string, limit int) ([]*core.ArchiveMatch, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding recall query", "query", query, "err", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.archive.Search(ctx, userID, vector, r.embedder.ModelVersion(), limit)
	if err != nil {
		return nil, fmt.Errorf("archive search failed: %w", err)
	}

	r.logger.Debug("recalled exchanges",
		"user_id", userID,
		"hits", len(matches))
	return matches, nil
}

// Associations returns up to limit of the user's strongest outgoing word
// associations from the given surface form.
func (r *Recaller) Associations(ctx context.Context, userID, form string, limit int) ([]core.Association, error) {
	associations, err := r.graph.Associations(ctx, userID, form, limit)
	if err != nil {
		return nil, fmt.Errorf("graph lookup failed: %w", err)
	}

	r.logger.Debug("recalled associations",
		"user_id", userID,
		"form", form,
		"hits", len(associations))
	return associations, nil
}
