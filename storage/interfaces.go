package storage

import (
	"context"

	"github.com/hangraph/hangraph/core"
)

// ArchiveRepository is the vector archive of question/answer exchanges.
// Implementations must be thread-safe and support concurrent access.
//
// All similarity operations take the caller's embedding model version and
// must return core.ErrModelVersionMismatch instead of comparing vectors
// produced by a different model.
type ArchiveRepository interface {
	// Nearest returns the single most similar entry for the user, by the
	// archive's own distance metric, regardless of distance. Returns
	// (nil, nil) when the user has no entries.
	Nearest(ctx context.Context, userID string, vector []float32, modelVersion string) (*core.ArchiveEntry, error)

	// Search returns up to limit entries for the user ranked by similarity,
	// highest first.
	Search(ctx context.Context, userID string, vector []float32, modelVersion string, limit int) ([]*core.ArchiveMatch, error)

	// Upsert persists an entry. An empty Id is assigned a new unique one and
	// a zero CreatedAt is set to the current time. Returns the stored entry.
	Upsert(ctx context.Context, entry *core.ArchiveEntry) (*core.ArchiveEntry, error)

	// EntryIDs returns the IDs of all stored entries, for batch iteration.
	EntryIDs(ctx context.Context) ([]string, error)

	// GetEntries retrieves entries by their IDs.
	// Returns only the entries that exist (no error for missing entries).
	GetEntries(ctx context.Context, ids ...string) ([]*core.ArchiveEntry, error)

	// UpdateEntries overwrites existing entries (used by reembedding to
	// refresh vectors and the model version).
	// Returns ErrNotFound if any entry doesn't exist.
	UpdateEntries(ctx context.Context, entries ...*core.ArchiveEntry) ([]*core.ArchiveEntry, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// GraphStore is the per-user word-association property graph.
// Node identity is the (category, surface form, raw tag) triple; edges are
// directed, scoped by user, and carry a frequency counter.
//
// Merge operations are create-if-absent: repeating them is safe at the node
// level, while MergeEdgeAndIncrement adds exactly one observation per call.
// Implementations must make the edge increment atomic at the storage layer so
// concurrent events never lose updates.
type GraphStore interface {
	// MergeNode creates the node for the token if absent.
	MergeNode(ctx context.Context, token core.ClassifiedToken) error

	// MergeEdgeAndIncrement creates the directed edge (source -> target) for
	// the user with frequency 1, or increments the existing frequency by
	// exactly 1. Returns the resulting frequency.
	MergeEdgeAndIncrement(ctx context.Context, userID string, source, target core.ClassifiedToken) (int64, error)

	// Associations returns up to limit outgoing associations from the given
	// surface form for the user, strongest first.
	Associations(ctx context.Context, userID, form string, limit int) ([]core.Association, error)

	// Close closes the graph store and releases resources.
	Close() error
}
