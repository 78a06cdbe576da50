package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hangraph/hangraph/ai"
	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/nlp"
	"github.com/hangraph/hangraph/storage"
)

// Pipeline orchestrates the processing of one ingestion event: validation,
// embedding, the novelty gate, the conditional archive write, and graph
// construction from the response text.
//
// Processing is synchronous and performs no internal retries; the caller
// owns redelivery. Validation failures wrap core.ErrInvalidEvent and must
// not be retried. Any other failure is transient from the caller's point of
// view: redelivering the event repeats every step, which is safe for the
// archive (the gate suppresses the duplicate write) and additive for the
// graph (frequencies count observations, including replayed ones).
type Pipeline struct {
	archive   storage.ArchiveRepository
	graph     storage.GraphStore
	embedder  ai.Embedder
	tokenizer nlp.Tokenizer
	gate      *NoveltyGate
	builder   *RelationshipBuilder
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	archive storage.ArchiveRepository,
	graph storage.GraphStore,
	embedder ai.Embedder,
	tokenizer nlp.Tokenizer,
	opts ...Option,
) (*Pipeline, error) {
	if archive == nil {
		return nil, ErrArchiveRequired
	}
	if graph == nil {
		return nil, ErrGraphRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if tokenizer == nil {
		return nil, ErrTokenizerRequired
	}

	p := &Pipeline{
		archive:   archive,
		graph:     graph,
		embedder:  embedder,
		tokenizer: tokenizer,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	gate, err := NewNoveltyGate(archive, p.logger)
	if err != nil {
		return nil, err
	}
	builder, err := NewRelationshipBuilder(graph, p.logger)
	if err != nil {
		return nil, err
	}
	p.gate = gate
	p.builder = builder

	return p, nil
}

// Result summarizes what one processed event did.
type Result struct {
	// Novel reports whether the exchange passed the novelty gate.
	Novel bool

	// EntryID is the archive entry ID when Novel, empty otherwise.
	EntryID string

	// Tokens is the number of tokens that survived classification.
	Tokens int

	// Edges is the number of graph edge observations written.
	Edges int
}

// Ingest processes a single event end to end. The archive write and the
// graph update are not atomic with each other: if the graph update fails
// after a novel exchange was archived, the inconsistency is logged and the
// error propagates so the event is redelivered. The replayed delivery will
// skip the archive write and redo the graph work.
func (p *Pipeline) Ingest(ctx context.Context, event *core.Event) (*Result, error) {
	if err := core.ValidateEvent(event); err != nil {
		return nil, err
	}

	vectors, err := p.embedder.EmbedTexts(ctx, []string{event.QueryText, event.ResponseText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed event texts: %w", err)
	}
	if len(vectors) != 2 {
		return nil, fmt.Errorf("%w: got %d vectors for 2 texts", ai.ErrEmbeddingCountMismatch, len(vectors))
	}
	queryVector, responseVector := vectors[0], vectors[1]
	modelVersion := p.embedder.ModelVersion()

	novel, _, err := p.gate.IsNovel(ctx, event.UserID, queryVector, modelVersion, event.ResponseText)
	if err != nil {
		return nil, fmt.Errorf("novelty check failed: %w", err)
	}

	result := &Result{Novel: novel}
	if novel {
		stored, err := p.archive.Upsert(ctx, &core.ArchiveEntry{
			UserID:         event.UserID,
			QueryText:      event.QueryText,
			ResponseText:   event.ResponseText,
			QueryVector:    queryVector,
			ResponseVector: responseVector,
			ModelVersion:   modelVersion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to archive exchange: %w", err)
		}
		result.EntryID = stored.Id
		p.logger.Info("archived novel exchange",
			"user_id", event.UserID,
			"entry_id", stored.Id)
	} else {
		p.logger.Debug("duplicate exchange, skipping archive", "user_id", event.UserID)
	}

	tokens, err := p.tokenizer.Tokenize(ctx, event.ResponseText)
	if err != nil {
		p.logInconsistency(result, event, err)
		return nil, fmt.Errorf("failed to tokenize response: %w", err)
	}

	classified := nlp.ClassifyTokens(tokens)
	result.Tokens = len(classified)

	edges, err := p.builder.Update(ctx, event.UserID, classified)
	result.Edges = edges
	if err != nil {
		p.logInconsistency(result, event, err)
		return nil, err
	}

	p.logger.Debug("event processed",
		"user_id", event.UserID,
		"novel", result.Novel,
		"tokens", result.Tokens,
		"edges", result.Edges)
	return result, nil
}

// logInconsistency flags an event that archived an exchange but did not
// complete its graph update. Redelivery repairs the graph side; the
// archived entry is already protected from duplication by the gate.
func (p *Pipeline) logInconsistency(result *Result, event *core.Event, cause error) {
	if result.EntryID == "" {
		return
	}
	p.logger.Warn("exchange archived but graph update incomplete, awaiting redelivery",
		"user_id", event.UserID,
		"entry_id", result.EntryID,
		"edges_written", result.Edges,
		"err", cause)
}
