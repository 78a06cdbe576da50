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
	"log/slog"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
)

// NoveltyGate decides whether an exchange is worth archiving. It compares
// the event against the user's single nearest archived entry by query
// similarity, regardless of how distant that entry is, and treats the event
// as novel only when the stored response text is not an exact string match.
// The gate never writes; it is a pure decision over the archive.
type NoveltyGate struct {
	archive storage.ArchiveRepository
	logger  *slog.Logger
}

// NewNoveltyGate creates a gate over the given archive.
func NewNoveltyGate(archive storage.ArchiveRepository, logger *slog.Logger) (*NoveltyGate, error) {
	if archive == nil {
		return nil, ErrArchiveRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NoveltyGate{
		archive: archive,
		logger:  logger.With("component", "novelty_gate"),
	}, nil
}

// IsNovel reports whether the response text differs from the one stored on
// the user's nearest archive entry. A user with no archived entries is
// always novel. The nearest entry is returned alongside the decision when
// one exists.
func (g *NoveltyGate) IsNovel(ctx context.Context, userID string, queryVector []float32, modelVersion, responseText string) (bool, *core.ArchiveEntry, error) {
	nearest, err := g.archive.Nearest(ctx, userID, queryVector, modelVersion)
	if err != nil {
		return false, nil, err
	}
	if nearest == nil {
		g.logger.Debug("no archived entries, treating as novel", "user_id", userID)
		return true, nil, nil
	}

	novel := nearest.ResponseText != responseText
	g.logger.Debug("novelty decision",
		"user_id", userID,
		"nearest_id", nearest.Id,
		"novel", novel)
	return novel, nearest, nil
}
