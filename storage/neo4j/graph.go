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

// Package neo4j provides a Neo4j-backed implementation of the word
// association graph. Words are stored as nodes labelled with their
// grammatical category plus the shared Word label, and co-occurrence is
// recorded as directed RELATED_TO edges scoped by user, with a frequency
// counter maintained server-side so concurrent increments never collide.
package neo4j

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// GraphStore implements storage.GraphStore on top of a Neo4j database.
type GraphStore struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

// Option configures a GraphStore.
type Option func(*GraphStore)

// WithLogger sets the logger used for graph operations.
func WithLogger(logger *slog.Logger) Option {
	return func(g *GraphStore) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGraphStore connects to the Neo4j instance at uri and verifies
// connectivity before returning.
func NewGraphStore(ctx context.Context, uri, username, password string, opts ...Option) (storage.GraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}

	store := &GraphStore{
		driver: driver,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// MergeNode creates the word node if it does not already exist. Node
// identity is (category label, surface form, raw tag); repeated calls with
// the same token are no-ops.
func (g *GraphStore) MergeNode(ctx context.Context, token core.ClassifiedToken) error {
	if err := core.ValidateCategory(token.Category); err != nil {
		return err
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	// Labels cannot be parameterized; token properties can and are.
	query := fmt.Sprintf(
		"MERGE (w:%s:Word {text: $text, type: $type})",
		token.Category.Label(),
	)
	if _, err := session.Run(ctx, query, map[string]any{
		"text": token.Form,
		"type": string(token.Tag),
	}); err != nil {
		return fmt.Errorf("failed to merge node %q: %w", token.Form, err)
	}
	return nil
}

// MergeEdgeAndIncrement records one observation of source followed by
// target for the user. Both nodes are merged first, then the directed edge
// is created with frequency 1 or its frequency bumped by exactly 1. The
// resulting frequency is returned.
func (g *GraphStore) MergeEdgeAndIncrement(ctx context.Context, userID string, source, target core.ClassifiedToken) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: empty user ID", storage.ErrInvalidQuery)
	}
	if err := core.ValidateCategory(source.Category); err != nil {
		return 0, err
	}
	if err := core.ValidateCategory(target.Category); err != nil {
		return 0, err
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := fmt.Sprintf(
		"MERGE (w1:%s:Word {text: $sourceText, type: $sourceType}) "+
			"MERGE (w2:%s:Word {text: $targetText, type: $targetType}) "+
			"MERGE (w1)-[r:RELATED_TO {userId: $userID}]->(w2) "+
			"ON CREATE SET r.frequency = 1 "+
			"ON MATCH SET r.frequency = r.frequency + 1 "+
			"RETURN r.frequency AS frequency",
		source.Category.Label(), target.Category.Label(),
	)
	result, err := session.Run(ctx, query, map[string]any{
		"sourceText": source.Form,
		"sourceType": string(source.Tag),
		"targetText": target.Form,
		"targetType": string(target.Tag),
		"userID":     userID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to merge edge %q -> %q: %w", source.Form, target.Form, err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read merged edge frequency: %w", err)
	}
	frequency, ok := record.Get("frequency")
	if !ok {
		return 0, fmt.Errorf("merge result missing frequency for %q -> %q", source.Form, target.Form)
	}
	count, ok := frequency.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected frequency type %T for %q -> %q", frequency, source.Form, target.Form)
	}

	g.logger.Debug("merged association",
		"source", source.Form,
		"target", target.Form,
		"user_id", userID,
		"frequency", count)
	return count, nil
}

// Associations returns up to limit outgoing associations from the given
// surface form for the user, ordered by descending frequency.
func (g *GraphStore) Associations(ctx context.Context, userID, form string, limit int) ([]core.Association, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}

	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := "MATCH (w1:Word {text: $form})-[r:RELATED_TO {userId: $userID}]->(w2:Word) " +
		"RETURN w1.text AS sourceText, w1.type AS sourceType, labels(w1) AS sourceLabels, " +
		"w2.text AS targetText, w2.type AS targetType, labels(w2) AS targetLabels, " +
		"r.frequency AS frequency " +
		"ORDER BY r.frequency DESC LIMIT $limit"
	result, err := session.Run(ctx, query, map[string]any{
		"form":   form,
		"userID": userID,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query associations for %q: %w", form, err)
	}

	var associations []core.Association
	for result.Next(ctx) {
		record := result.Record()
		assoc := core.Association{
			Source: tokenFromRecord(record, "sourceText", "sourceType", "sourceLabels"),
			Target: tokenFromRecord(record, "targetText", "targetType", "targetLabels"),
		}
		if frequency, ok := record.Get("frequency"); ok {
			if count, ok := frequency.(int64); ok {
				assoc.Frequency = count
			}
		}
		associations = append(associations, assoc)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read associations for %q: %w", form, err)
	}
	return associations, nil
}

// Close releases the underlying driver.
func (g *GraphStore) Close() error {
	return g.driver.Close(context.Background())
}

func tokenFromRecord(record *neo4j.Record, textKey, typeKey, labelsKey string) core.ClassifiedToken {
	var token core.ClassifiedToken
	if text, ok := record.Get(textKey); ok {
		if form, ok := text.(string); ok {
			token.Form = form
		}
	}
	if typ, ok := record.Get(typeKey); ok {
		if tag, ok := typ.(string); ok {
			token.Tag = core.Tag(tag)
		}
	}
	if labels, ok := record.Get(labelsKey); ok {
		if list, ok := labels.([]any); ok {
			for _, label := range list {
				name, ok := label.(string)
				if !ok || name == "Word" {
					continue
				}
				if category, err := core.CategoryFromLabel(name); err == nil {
					token.Category = category
					break
				}
			}
		}
	}
	return token
}
