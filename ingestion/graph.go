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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// RelationshipBuilder records word co-occurrence from a classified token
// sequence into the association graph. Every adjacent pair becomes one
// directed edge observation, except pairs whose source is a sentence
// boundary: a boundary closes a clause and must not link across it, though
// it may still be the target of the preceding word.
type RelationshipBuilder struct {
	graph  storage.GraphStore
	logger *slog.Logger
}

// NewRelationshipBuilder creates a builder writing to the given graph store.
func NewRelationshipBuilder(graph storage.GraphStore, logger *slog.Logger) (*RelationshipBuilder, error) {
	if graph == nil {
		return nil, ErrGraphRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RelationshipBuilder{
		graph:  graph,
		logger: logger.With("component", "relationship_builder"),
	}, nil
}

// Update walks the token sequence in order and merge-increments one edge
// per eligible adjacent pair. A sequence of fewer than two tokens yields no
// edges. The first store error aborts the walk and fails the whole event;
// partial writes are reconciled by redelivery, which replays every pair.
// Returns the number of edges written.
func (b *RelationshipBuilder) Update(ctx context.Context, userID string, tokens []core.ClassifiedToken) (int, error) {
	edges := 0
	for i := 0; i < len(tokens)-1; i++ {
		source, target := tokens[i], tokens[i+1]
		if source.Category == core.CategoryBoundary {
			continue
		}

		frequency, err := b.graph.MergeEdgeAndIncrement(ctx, userID, source, target)
		if err != nil {
			return edges, fmt.Errorf("failed to record association %q -> %q: %w", source.Form, target.Form, err)
		}
		edges++
		b.logger.Debug("association recorded",
			"source", source.Form,
			"target", target.Form,
			"user_id", userID,
			"frequency", frequency,
			"index", i)
	}
	return edges, nil
}
