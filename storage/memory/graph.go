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

// Package memory provides an in-process implementation of the word
// association graph. It mirrors the merge semantics of the Neo4j store and
// is used by tests and single-node deployments that do not need a graph
// database.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

type nodeKey struct {
	category core.Category
	form     string
	tag      core.Tag
}

type edgeKey struct {
	userID string
	source nodeKey
	target nodeKey
}

// GraphStore is a mutex-guarded in-memory storage.GraphStore.
type GraphStore struct {
	mu     sync.Mutex
	nodes  map[nodeKey]struct{}
	edges  map[edgeKey]int64
	closed bool
}

// NewGraphStore returns an empty in-memory graph.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		nodes: make(map[nodeKey]struct{}),
		edges: make(map[edgeKey]int64),
	}
}

var _ storage.GraphStore = (*GraphStore)(nil)

func keyOf(token core.ClassifiedToken) nodeKey {
	return nodeKey{category: token.Category, form: token.Form, tag: token.Tag}
}

// MergeNode creates the node for the token if absent.
func (g *GraphStore) MergeNode(_ context.Context, token core.ClassifiedToken) error {
	if err := core.ValidateCategory(token.Category); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return storage.ErrStorageClosed
	}
	g.nodes[keyOf(token)] = struct{}{}
	return nil
}

// MergeEdgeAndIncrement merges both endpoint nodes and adds one observation
// to the directed edge between them for the user.
func (g *GraphStore) MergeEdgeAndIncrement(_ context.Context, userID string, source, target core.ClassifiedToken) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: empty user ID", storage.ErrInvalidQuery)
	}
	if err := core.ValidateCategory(source.Category); err != nil {
		return 0, err
	}
	if err := core.ValidateCategory(target.Category); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, storage.ErrStorageClosed
	}

	sourceKey, targetKey := keyOf(source), keyOf(target)
	g.nodes[sourceKey] = struct{}{}
	g.nodes[targetKey] = struct{}{}

	key := edgeKey{userID: userID, source: sourceKey, target: targetKey}
	g.edges[key]++
	return g.edges[key], nil
}

// Associations returns up to limit outgoing associations from the given
// surface form for the user, strongest first.
func (g *GraphStore) Associations(_ context.Context, userID, form string, limit int) ([]core.Association, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil, storage.ErrStorageClosed
	}

	var associations []core.Association
	for key, frequency := range g.edges {
		if key.userID != userID || key.source.form != form {
			continue
		}
		associations = append(associations, core.Association{
			Source:    core.ClassifiedToken{Form: key.source.form, Category: key.source.category, Tag: key.source.tag},
			Target:    core.ClassifiedToken{Form: key.target.form, Category: key.target.category, Tag: key.target.tag},
			Frequency: frequency,
		})
	}
	slices.SortFunc(associations, func(a, b core.Association) int {
		if a.Frequency != b.Frequency {
			if a.Frequency > b.Frequency {
				return -1
			}
			return 1
		}
		// Stable order for equal frequencies.
		if a.Target.Form < b.Target.Form {
			return -1
		}
		if a.Target.Form > b.Target.Form {
			return 1
		}
		return 0
	})
	if len(associations) > limit {
		associations = associations[:limit]
	}
	return associations, nil
}

// NodeCount reports the number of distinct nodes, for tests.
func (g *GraphStore) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// EdgeCount reports the number of distinct edges, for tests.
func (g *GraphStore) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.edges)
}

// Frequency reports the current frequency of an edge, or 0 if absent.
func (g *GraphStore) Frequency(userID string, source, target core.ClassifiedToken) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[edgeKey{userID: userID, source: keyOf(source), target: keyOf(target)}]
}

// Close marks the store closed; subsequent operations fail with
// storage.ErrStorageClosed.
func (g *GraphStore) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}
