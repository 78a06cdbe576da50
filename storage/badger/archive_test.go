package badger

import (
	"context"
	"testing"
	"time"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = "mock-embedder"

func setupArchive(t *testing.T) storage.ArchiveRepository {
	t.Helper()

	repo, backend, err := NewMemoryArchive()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testEntry(userID, query, response string, vector []float32) *core.ArchiveEntry {
	return &core.ArchiveEntry{
		UserID:       userID,
		QueryText:    query,
		ResponseText: response,
		QueryVector:  vector,
		ModelVersion: testModel,
	}
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestArchiveUpsert_AssignsIDAndTimestamp(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	entry := testEntry("u1", "오늘 날씨 어때?", "오늘은 맑아요", []float32{1, 0, 0})
	stored, err := repo.Upsert(ctx, entry)
	require.NoError(t, err)

	assert.NotEmpty(t, stored.Id)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.True(t, time.Since(stored.CreatedAt) < time.Minute)
}

func TestArchiveUpsert_RejectsInvalidEntry(t *testing.T) {
	repo := setupArchive(t)

	_, err := repo.Upsert(context.Background(), &core.ArchiveEntry{UserID: "u1"})
	assert.ErrorIs(t, err, core.ErrInvalidArchiveEntry)
}

func TestArchiveNearest_NoEntries(t *testing.T) {
	repo := setupArchive(t)

	entry, err := repo.Nearest(context.Background(), "u1", []float32{1, 0, 0}, testModel)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestArchiveNearest_ReturnsBestMatch(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{1, 0, 0}))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testEntry("u1", "q2", "r2", []float32{0, 1, 0}))
	require.NoError(t, err)

	nearest, err := repo.Nearest(ctx, "u1", []float32{0.9, 0.1, 0}, testModel)
	require.NoError(t, err)
	require.NotNil(t, nearest)
	assert.Equal(t, "q1", nearest.QueryText)
}

func TestArchiveNearest_NoThreshold(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	// A single orthogonal (similarity 0) entry is still the nearest match.
	_, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{0, 1, 0}))
	require.NoError(t, err)

	nearest, err := repo.Nearest(ctx, "u1", []float32{1, 0, 0}, testModel)
	require.NoError(t, err)
	require.NotNil(t, nearest)
	assert.Equal(t, "q1", nearest.QueryText)
}

func TestArchiveNearest_ScopedToUser(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{1, 0, 0}))
	require.NoError(t, err)

	nearest, err := repo.Nearest(ctx, "u2", []float32{1, 0, 0}, testModel)
	require.NoError(t, err)
	assert.Nil(t, nearest, "another user's entries must not be visible")
}

func TestArchiveNearest_DelimiterInUserID(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	// A user ID may contain the key delimiter; it must not widen another
	// user's scan range.
	_, err := repo.Upsert(ctx, testEntry("u1:evil", "q1", "secret", []float32{1, 0, 0}))
	require.NoError(t, err)

	nearest, err := repo.Nearest(ctx, "u1", []float32{1, 0, 0}, testModel)
	require.NoError(t, err)
	assert.Nil(t, nearest, "colon-bearing user IDs must stay in their own range")

	matches, err := repo.Search(ctx, "u1", []float32{1, 0, 0}, testModel, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// The owner still sees the entry.
	nearest, err = repo.Nearest(ctx, "u1:evil", []float32{1, 0, 0}, testModel)
	require.NoError(t, err)
	require.NotNil(t, nearest)
	assert.Equal(t, "secret", nearest.ResponseText)
}

func TestArchiveNearest_ModelVersionMismatch(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{1, 0, 0}))
	require.NoError(t, err)

	_, err = repo.Nearest(ctx, "u1", []float32{1, 0, 0}, "other-model")
	assert.ErrorIs(t, err, core.ErrModelVersionMismatch)
}

func TestArchiveSearch_RankedAndLimited(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testEntry("u1", "far", "r", []float32{0, 1, 0}))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testEntry("u1", "near", "r", []float32{1, 0, 0}))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, testEntry("u1", "mid", "r", []float32{0.7, 0.7, 0}))
	require.NoError(t, err)

	matches, err := repo.Search(ctx, "u1", []float32{1, 0, 0}, testModel, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "near", matches[0].Entry.QueryText)
	assert.Equal(t, "mid", matches[1].Entry.QueryText)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestArchiveSearch_InvalidLimit(t *testing.T) {
	repo := setupArchive(t)

	_, err := repo.Search(context.Background(), "u1", []float32{1}, testModel, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestArchiveEntryIDs_And_GetEntries(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	first, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{1, 0}))
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, testEntry("u2", "q2", "r2", []float32{0, 1}))
	require.NoError(t, err)

	ids, err := repo.EntryIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.Id, second.Id}, ids)

	entries, err := repo.GetEntries(ctx, first.Id, "missing", second.Id)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestArchiveUpdateEntries(t *testing.T) {
	repo := setupArchive(t)
	ctx := context.Background()

	stored, err := repo.Upsert(ctx, testEntry("u1", "q1", "r1", []float32{1, 0}))
	require.NoError(t, err)

	stored.QueryVector = []float32{0, 1}
	stored.ModelVersion = "new-model"
	_, err = repo.UpdateEntries(ctx, stored)
	require.NoError(t, err)

	entries, err := repo.GetEntries(ctx, stored.Id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []float32{0, 1}, entries[0].QueryVector)
	assert.Equal(t, "new-model", entries[0].ModelVersion)
}

func TestArchiveUpdateEntries_NotFound(t *testing.T) {
	repo := setupArchive(t)

	entry := testEntry("u1", "q", "r", []float32{1})
	entry.Id = "does-not-exist"
	_, err := repo.UpdateEntries(context.Background(), entry)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
