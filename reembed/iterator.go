// Copyright 2026 Hangraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

const (
	// DefaultBatchSize is the default number of entries to fetch in each batch
	DefaultBatchSize = 100
)

// EntryIterator iterates over all archive entries in batches. It snapshots
// the ID list up front, then fetches entries batch by batch so only one
// batch of vectors is resident at a time.
type EntryIterator struct {
	archive   storage.ArchiveRepository
	batchSize int
}

// NewEntryIterator creates a new entry iterator.
// batchSize: number of entries to fetch in each batch (must be > 0)
func NewEntryIterator(archive storage.ArchiveRepository, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator{
		archive:   archive,
		batchSize: batchSize,
	}
}

// Count returns the number of entries currently in the archive.
func (it *EntryIterator) Count(ctx context.Context) (int, error) {
	ids, err := it.archive.EntryIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ForEach iterates over all archive entries, calling fn for each batch.
// Iteration stops on the first error from fn or when all entries are
// processed. Context cancellation is checked between batches.
func (it *EntryIterator) ForEach(ctx context.Context, fn func([]*core.ArchiveEntry) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	ids, err := it.archive.EntryIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	for i := 0; i < len(ids); i += it.batchSize {
		end := i + it.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		entries, err := it.archive.GetEntries(ctx, ids[i:end]...)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			continue
		}

		if err := fn(entries); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}
