package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hangraph/hangraph/core"
	"github.com/hangraph/hangraph/nlp"
	nlpmock "github.com/hangraph/hangraph/nlp/mock"
	"github.com/hangraph/hangraph/storage"
	storagebadger "github.com/hangraph/hangraph/storage/badger"
	storagememory "github.com/hangraph/hangraph/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/hangraph/hangraph/ai/mock"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	archive   storage.ArchiveRepository
	graph     *storagememory.GraphStore
	embedder  *aimock.MockEmbedder
	tokenizer *nlpmock.MockTokenizer
}

func setupPipeline(t *testing.T) *pipelineFixture {
	t.Helper()

	archive, backend, err := storagebadger.NewMemoryArchive()
	require.NoError(t, err)
	t.Cleanup(func() {
		archive.Close()
		backend.Close()
	})

	graph := storagememory.NewGraphStore()
	embedder := aimock.NewMockEmbedder()
	tokenizer := nlpmock.NewMockTokenizer()

	pipeline, err := NewPipeline(archive, graph, embedder, tokenizer)
	require.NoError(t, err)

	return &pipelineFixture{
		pipeline:  pipeline,
		archive:   archive,
		graph:     graph,
		embedder:  embedder,
		tokenizer: tokenizer,
	}
}

func orderEvent() *core.Event {
	return &core.Event{
		UserID:       "u1",
		QueryText:    "아아 한 잔 주문해줘",
		ResponseText: "아아 주세요",
	}
}

func scriptOrderTokens(tokenizer *nlpmock.MockTokenizer) {
	tokenizer.Responses["아아 주세요"] = []core.Token{
		{Form: "아아", Tag: nlp.TagNNP},
		{Form: "주세요", Tag: nlp.TagVV},
	}
}

func TestNewPipeline_RequiredDependencies(t *testing.T) {
	f := setupPipeline(t)

	_, err := NewPipeline(nil, f.graph, f.embedder, f.tokenizer)
	assert.ErrorIs(t, err, ErrArchiveRequired)

	_, err = NewPipeline(f.archive, nil, f.embedder, f.tokenizer)
	assert.ErrorIs(t, err, ErrGraphRequired)

	_, err = NewPipeline(f.archive, f.graph, nil, f.tokenizer)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(f.archive, f.graph, f.embedder, nil)
	assert.ErrorIs(t, err, ErrTokenizerRequired)
}

func TestIngest_InvalidEvent(t *testing.T) {
	f := setupPipeline(t)

	cases := []struct {
		name  string
		event *core.Event
	}{
		{"nil event", nil},
		{"empty user", &core.Event{QueryText: "q", ResponseText: "r"}},
		{"empty query", &core.Event{UserID: "u1", ResponseText: "r"}},
		{"empty response", &core.Event{UserID: "u1", QueryText: "q"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.pipeline.Ingest(context.Background(), tc.event)
			assert.ErrorIs(t, err, core.ErrInvalidEvent)
		})
	}

	assert.Equal(t, 0, f.embedder.CallCount(), "invalid events must not reach the embedder")
}

func TestIngest_NovelEvent_ArchivesAndBuildsGraph(t *testing.T) {
	f := setupPipeline(t)
	scriptOrderTokens(f.tokenizer)

	result, err := f.pipeline.Ingest(context.Background(), orderEvent())
	require.NoError(t, err)

	assert.True(t, result.Novel)
	assert.NotEmpty(t, result.EntryID)
	assert.Equal(t, 2, result.Tokens)
	assert.Equal(t, 1, result.Edges)

	entries, err := f.archive.GetEntries(context.Background(), result.EntryID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, "아아 한 잔 주문해줘", entry.QueryText)
	assert.Equal(t, "아아 주세요", entry.ResponseText)
	assert.NotEmpty(t, entry.QueryVector)
	assert.NotEmpty(t, entry.ResponseVector)
	assert.Equal(t, "mock-embedder", entry.ModelVersion)

	frequency := f.graph.Frequency("u1",
		core.ClassifiedToken{Form: "아아", Category: core.CategoryNoun, Tag: nlp.TagNNP},
		core.ClassifiedToken{Form: "주세요", Category: core.CategoryVerb, Tag: nlp.TagVV})
	assert.Equal(t, int64(1), frequency)
}

func TestIngest_DuplicateEvent_SkipsArchiveDoublesFrequencies(t *testing.T) {
	f := setupPipeline(t)
	scriptOrderTokens(f.tokenizer)
	ctx := context.Background()

	first, err := f.pipeline.Ingest(ctx, orderEvent())
	require.NoError(t, err)
	require.True(t, first.Novel)

	second, err := f.pipeline.Ingest(ctx, orderEvent())
	require.NoError(t, err)

	assert.False(t, second.Novel)
	assert.Empty(t, second.EntryID)
	assert.Equal(t, 1, second.Edges, "graph work is repeated even for duplicates")

	ids, err := f.archive.EntryIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1, "duplicate must not create a second entry")

	frequency := f.graph.Frequency("u1",
		core.ClassifiedToken{Form: "아아", Category: core.CategoryNoun, Tag: nlp.TagNNP},
		core.ClassifiedToken{Form: "주세요", Category: core.CategoryVerb, Tag: nlp.TagVV})
	assert.Equal(t, int64(2), frequency, "replay adds one observation per delivery")
}

func TestIngest_SameQueryDifferentResponse_IsNovel(t *testing.T) {
	f := setupPipeline(t)
	ctx := context.Background()

	_, err := f.pipeline.Ingest(ctx, orderEvent())
	require.NoError(t, err)

	changed := orderEvent()
	changed.ResponseText = "라떼 주세요"
	result, err := f.pipeline.Ingest(ctx, changed)
	require.NoError(t, err)
	assert.True(t, result.Novel)

	ids, err := f.archive.EntryIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestIngest_NoveltyScopedToUser(t *testing.T) {
	f := setupPipeline(t)
	ctx := context.Background()

	_, err := f.pipeline.Ingest(ctx, orderEvent())
	require.NoError(t, err)

	other := orderEvent()
	other.UserID = "u2"
	result, err := f.pipeline.Ingest(ctx, other)
	require.NoError(t, err)
	assert.True(t, result.Novel, "another user's archive must not suppress the write")
}

func TestIngest_BoundarySourceSkipped(t *testing.T) {
	f := setupPipeline(t)
	ctx := context.Background()

	event := &core.Event{UserID: "u1", QueryText: "q", ResponseText: "two clauses"}
	f.tokenizer.Responses["two clauses"] = []core.Token{
		{Form: "오늘", Tag: nlp.TagNNG},
		{Form: ".", Tag: nlp.TagSF},
		{Form: "내일", Tag: nlp.TagNNG},
	}

	result, err := f.pipeline.Ingest(ctx, event)
	require.NoError(t, err)

	// 오늘 -> . is written; . -> 내일 is not.
	assert.Equal(t, 1, result.Edges)
	frequency := f.graph.Frequency("u1",
		core.ClassifiedToken{Form: ".", Category: core.CategoryBoundary, Tag: nlp.TagSF},
		core.ClassifiedToken{Form: "내일", Category: core.CategoryNoun, Tag: nlp.TagNNG})
	assert.Equal(t, int64(0), frequency)
}

func TestIngest_SingleTokenResponse_NoEdges(t *testing.T) {
	f := setupPipeline(t)

	result, err := f.pipeline.Ingest(context.Background(), &core.Event{
		UserID: "u1", QueryText: "q", ResponseText: "네",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Edges)
	assert.Equal(t, 0, f.graph.EdgeCount())
}

func TestIngest_EmbedderFailure(t *testing.T) {
	f := setupPipeline(t)
	embedErr := errors.New("embedding service unavailable")
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}

	_, err := f.pipeline.Ingest(context.Background(), orderEvent())
	assert.ErrorIs(t, err, embedErr)
	assert.NotErrorIs(t, err, core.ErrInvalidEvent)

	ids, archiveErr := f.archive.EntryIDs(context.Background())
	require.NoError(t, archiveErr)
	assert.Empty(t, ids, "no side effects before embedding succeeds")
}

func TestIngest_TokenizerFailureAfterArchive(t *testing.T) {
	f := setupPipeline(t)
	ctx := context.Background()

	tokErr := errors.New("analyzer unreachable")
	f.tokenizer.TokenizeFunc = func(ctx context.Context, text string) ([]core.Token, error) {
		return nil, tokErr
	}

	_, err := f.pipeline.Ingest(ctx, orderEvent())
	assert.ErrorIs(t, err, tokErr)

	// The entry was archived before tokenization failed; redelivery of the
	// same event must not duplicate it.
	ids, archiveErr := f.archive.EntryIDs(ctx)
	require.NoError(t, archiveErr)
	require.Len(t, ids, 1)

	f.tokenizer.Reset()
	scriptOrderTokens(f.tokenizer)
	result, err := f.pipeline.Ingest(ctx, orderEvent())
	require.NoError(t, err)
	assert.False(t, result.Novel)
	assert.Equal(t, 1, result.Edges)

	ids, archiveErr = f.archive.EntryIDs(ctx)
	require.NoError(t, archiveErr)
	assert.Len(t, ids, 1)
}

func TestIngest_GraphFailureFailsEvent(t *testing.T) {
	f := setupPipeline(t)
	scriptOrderTokens(f.tokenizer)

	require.NoError(t, f.graph.Close())

	_, err := f.pipeline.Ingest(context.Background(), orderEvent())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestRelationshipBuilder_PairWalk(t *testing.T) {
	graph := storagememory.NewGraphStore()
	builder, err := NewRelationshipBuilder(graph, nil)
	require.NoError(t, err)

	tokens := []core.ClassifiedToken{
		{Form: "오늘", Category: core.CategoryNoun, Tag: nlp.TagNNG},
		{Form: "놀이공원", Category: core.CategoryNoun, Tag: nlp.TagNNP},
		{Form: "가", Category: core.CategoryVerb, Tag: nlp.TagVV},
	}
	edges, err := builder.Update(context.Background(), "u1", tokens)
	require.NoError(t, err)
	assert.Equal(t, 2, edges, "n tokens produce n-1 candidate pairs")
}

func TestRelationshipBuilder_EmptyAndSingle(t *testing.T) {
	graph := storagememory.NewGraphStore()
	builder, err := NewRelationshipBuilder(graph, nil)
	require.NoError(t, err)

	edges, err := builder.Update(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, edges)

	edges, err = builder.Update(context.Background(), "u1", []core.ClassifiedToken{
		{Form: "아아", Category: core.CategoryNoun, Tag: nlp.TagNNG},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, edges)
}

func TestNoveltyGate_EmptyArchive(t *testing.T) {
	archive, backend, err := storagebadger.NewMemoryArchive()
	require.NoError(t, err)
	defer backend.Close()
	defer archive.Close()

	gate, err := NewNoveltyGate(archive, nil)
	require.NoError(t, err)

	novel, nearest, err := gate.IsNovel(context.Background(), "u1", []float32{1, 0}, "mock-embedder", "r")
	require.NoError(t, err)
	assert.True(t, novel)
	assert.Nil(t, nearest)
}

func TestNoveltyGate_NoThreshold(t *testing.T) {
	archive, backend, err := storagebadger.NewMemoryArchive()
	require.NoError(t, err)
	defer backend.Close()
	defer archive.Close()
	ctx := context.Background()

	// Store an exchange whose query vector is orthogonal to the probe: the
	// gate must still consult it and suppress the duplicate response.
	_, err = archive.Upsert(ctx, &core.ArchiveEntry{
		UserID:       "u1",
		QueryText:    "완전히 다른 질문",
		ResponseText: "아아 주세요",
		QueryVector:  []float32{0, 1},
		ModelVersion: "mock-embedder",
	})
	require.NoError(t, err)

	gate, err := NewNoveltyGate(archive, nil)
	require.NoError(t, err)

	novel, nearest, err := gate.IsNovel(ctx, "u1", []float32{1, 0}, "mock-embedder", "아아 주세요")
	require.NoError(t, err)
	assert.False(t, novel)
	require.NotNil(t, nearest)

	novel, _, err = gate.IsNovel(ctx, "u1", []float32{1, 0}, "mock-embedder", "라떼 주세요")
	require.NoError(t, err)
	assert.True(t, novel)
}

func TestIngest_ConcurrentEvents(t *testing.T) {
	f := setupPipeline(t)
	ctx := context.Background()

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			event := &core.Event{
				UserID:       "u1",
				QueryText:    fmt.Sprintf("질문 %d", i),
				ResponseText: fmt.Sprintf("응답 %d", i),
			}
			_, err := f.pipeline.Ingest(ctx, event)
			errs <- err
		}(i)
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-errs)
	}

	ids, err := f.archive.EntryIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, workers)
}
