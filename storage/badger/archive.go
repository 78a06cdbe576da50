package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// ArchiveRepository implements storage.ArchiveRepository for BadgerDB.
// Similarity search is a brute-force cosine scan over the user's entries,
// which is adequate for per-user archive sizes.
type ArchiveRepository struct {
	backend *Backend
}

var _ storage.ArchiveRepository = (*ArchiveRepository)(nil)

// NewArchiveRepository creates a new ArchiveRepository.
func NewArchiveRepository(backend *Backend) (*ArchiveRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ArchiveRepository{backend: backend}, nil
}

// Close is a no-op; the owning Backend manages the database lifecycle.
func (r *ArchiveRepository) Close() error {
	return nil
}

// Upsert persists an entry, assigning an ID and creation time when absent.
func (r *ArchiveRepository) Upsert(ctx context.Context, entry *core.ArchiveEntry) (*core.ArchiveEntry, error) {
	if err := core.ValidateArchiveEntry(entry); err != nil {
		return nil, err
	}

	if entry.Id == "" {
		entry.Id = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		value := storage.MarshalArchiveEntry(entry)
		if err := tx.Set(makeEntryKey(entry.Id), value); err != nil {
			return err
		}
		// Per-user index maps back to the primary key.
		if err := tx.Set(makeUserEntryKey(entry.UserID, entry.Id), []byte(entry.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// Nearest returns the single most similar entry for the user.
// No similarity threshold is applied: the best match is returned regardless
// of distance. Returns (nil, nil) when the user has no entries.
func (r *ArchiveRepository) Nearest(ctx context.Context, userID string, vector []float32, modelVersion string) (*core.ArchiveEntry, error) {
	matches, err := r.scanUser(ctx, userID, vector, modelVersion, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0].Entry, nil
}

// Search returns up to limit entries for the user ranked by similarity.
func (r *ArchiveRepository) Search(ctx context.Context, userID string, vector []float32, modelVersion string, limit int) ([]*core.ArchiveMatch, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	return r.scanUser(ctx, userID, vector, modelVersion, limit)
}

func (r *ArchiveRepository) scanUser(ctx context.Context, userID string, vector []float32, modelVersion string, limit int) ([]*core.ArchiveMatch, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, core.ErrEmptyUserID)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: %w", storage.ErrInvalidQuery, core.ErrEmptyVector)
	}

	var matches []*core.ArchiveMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeUserPrefix(userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry == nil {
				continue
			}

			// The index segment is a hash of the user ID; verify ownership
			// so a colliding hash never surfaces another user's entries.
			if entry.UserID != userID {
				continue
			}

			// Comparing vectors across embedding models is meaningless;
			// surface it instead of computing a bogus score.
			if entry.ModelVersion != modelVersion {
				return fmt.Errorf("%w: entry %s has model %q, query has %q",
					core.ErrModelVersionMismatch, entry.Id, entry.ModelVersion, modelVersion)
			}

			matches = append(matches, &core.ArchiveMatch{
				Entry: entry,
				Score: cosineSimilarity(vector, entry.QueryVector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.ArchiveMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// EntryIDs returns the IDs of all stored entries.
func (r *ArchiveRepository) EntryIDs(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(archiveEntryPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, archiveEntryPrefix+":"))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// GetEntries retrieves entries by their IDs, skipping missing ones.
func (r *ArchiveRepository) GetEntries(ctx context.Context, ids ...string) ([]*core.ArchiveEntry, error) {
	entries := make([]*core.ArchiveEntry, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := r.readEntry(tx, id)
			if err != nil {
				return err
			}
			if entry != nil {
				entries = append(entries, entry)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// UpdateEntries overwrites existing entries.
func (r *ArchiveRepository) UpdateEntries(ctx context.Context, entries ...*core.ArchiveEntry) ([]*core.ArchiveEntry, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			old, err := r.readEntry(tx, entry.Id)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			value := storage.MarshalArchiveEntry(entry)
			if err := tx.Set(makeEntryKey(entry.Id), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// readEntry reads a single entry within a transaction.
// Returns (nil, nil) if the entry doesn't exist.
func (r *ArchiveRepository) readEntry(tx *badger.Txn, id string) (*core.ArchiveEntry, error) {
	item, err := tx.Get(makeEntryKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.ArchiveEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalArchiveEntry(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// cosineSimilarity calculates the cosine similarity of two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
