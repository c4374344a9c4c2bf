package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rebuttal-agent-be/internal/constant"
	"rebuttal-agent-be/pkg/embedding"
	"rebuttal-agent-be/pkg/llm"
	"rebuttal-agent-be/pkg/openreview"
	"rebuttal-agent-be/pkg/rag/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeFetcher struct {
	reviews  []openreview.Review
	err      error
	gotForum string
	calls    int
}

func (f *fakeFetcher) FetchReplies(ctx context.Context, forumID string) ([]openreview.Review, error) {
	f.calls++
	f.gotForum = forumID
	return f.reviews, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(data []byte) (string, error) {
	return f.text, f.err
}

type fakeEmbedder struct {
	err error
}

// Generate returns a vector keyed on text length so distinct chunks get
// distinct directions.
func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	v := []float32{1, float32(len(text) % 7)}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: v},
	}, nil
}

type fakeGenerator struct {
	reply      string
	err        error
	gotPrompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.gotPrompts = append(f.gotPrompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type appendedTurn struct {
	sessionID, role, content string
}

type fakeStore struct {
	history  []llm.Message
	appended []appendedTurn
}

func (f *fakeStore) Append(ctx context.Context, sessionID, role, content string) {
	f.appended = append(f.appended, appendedTurn{sessionID, role, content})
}

func (f *fakeStore) LoadHistory(ctx context.Context, sessionID string) []llm.Message {
	return f.history
}

type fakeCheckpoints struct {
	chunks  []string
	vectors [][]float32
	saved   int
	saveErr error
}

func (f *fakeCheckpoints) Save(ctx context.Context, sessionID string, chunks []string, vectors [][]float32) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.chunks = chunks
	f.vectors = vectors
	f.saved++
	return nil
}

func (f *fakeCheckpoints) Load(ctx context.Context, sessionID string) ([]string, [][]float32, bool) {
	if f.chunks == nil {
		return nil, nil, false
	}
	return f.chunks, f.vectors, true
}

func newTestPipeline(fetcher *fakeFetcher, extractor *fakeExtractor, gen *fakeGenerator, store *fakeStore, cps *fakeCheckpoints) *Pipeline {
	var checkpoints CheckpointStore
	if cps != nil {
		checkpoints = cps
	}
	return New(fetcher, extractor, &fakeEmbedder{}, gen, store, checkpoints, nil)
}

// --- tests ---

func TestRun_EmptyThreadIDSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("should not be called")}
	gen := &fakeGenerator{reply: "ok"}
	p := newTestPipeline(fetcher, &fakeExtractor{}, gen, &fakeStore{}, nil)

	out, err := p.Run(context.Background(), Input{Query: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, out.ReviewCount)
	assert.Equal(t, "ok", out.Rebuttal)
}

func TestRun_FetchFailureIsFatalWhenThreadIDPresent(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	gen := &fakeGenerator{reply: "ok"}
	p := newTestPipeline(fetcher, &fakeExtractor{}, gen, &fakeStore{}, nil)

	_, err := p.Run(context.Background(), Input{ThreadID: "t1", Query: "hello"})
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, ErrKindReviewFetch, stageErr.Kind)
	assert.Empty(t, gen.gotPrompts)
}

func TestRun_ThreadIDDerivedFromURL(t *testing.T) {
	fetcher := &fakeFetcher{}
	gen := &fakeGenerator{reply: "ok"}
	p := newTestPipeline(fetcher, &fakeExtractor{}, gen, &fakeStore{}, nil)

	_, err := p.Run(context.Background(), Input{
		ThreadID: "https://openreview.net/forum?id=abc123",
		Query:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", fetcher.gotForum)
}

func TestRun_ExtractionFailureDegrades(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("malformed pdf")}
	gen := &fakeGenerator{reply: "ok"}
	p := newTestPipeline(&fakeFetcher{}, extractor, gen, &fakeStore{}, nil)

	out, err := p.Run(context.Background(), Input{
		Query:         "hello",
		DocumentBytes: []byte("junk"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Rebuttal)
	assert.Contains(t, out.DegradedStages, ErrKindExtraction)
	assert.Equal(t, 0, out.ChunkCount)
	assert.Equal(t, prompt.KindGeneral, out.TemplateKind)
}

func TestRun_GenerationFailureReturnsFallbackMarker(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("llm down")}
	store := &fakeStore{}
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{}, gen, store, nil)

	out, err := p.Run(context.Background(), Input{Query: "hello", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, constant.GenerationFallbackMessage, out.Rebuttal)
	assert.Contains(t, out.DegradedStages, ErrKindGeneration)

	// The fallback is still persisted as the assistant turn.
	require.Len(t, store.appended, 2)
	assert.Equal(t, constant.GenerationFallbackMessage, store.appended[1].content)
}

func TestRun_TemplateSelection(t *testing.T) {
	reviews := []openreview.Review{{ID: "r1", Content: map[string]string{"review": "weak baselines"}}}

	tests := []struct {
		name     string
		threadID string
		reviews  []openreview.Review
		docText  string
		expected prompt.Kind
	}{
		{"neither", "", nil, "", prompt.KindGeneral},
		{"excerpts only", "", nil, "Result: 99% accuracy", prompt.KindExcerptsOnly},
		{"reviews only", "t1", reviews, "", prompt.KindReviewsOnly},
		{"both", "t1", reviews, "Result: 99% accuracy", prompt.KindFullRebuttal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: "drafted"}
			var docBytes []byte
			if tt.docText != "" {
				docBytes = []byte("pdf")
			}
			p := newTestPipeline(&fakeFetcher{reviews: tt.reviews}, &fakeExtractor{text: tt.docText}, gen, &fakeStore{}, nil)

			out, err := p.Run(context.Background(), Input{
				ThreadID:      tt.threadID,
				Query:         "q",
				DocumentBytes: docBytes,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.TemplateKind)
		})
	}
}

func TestRun_EndToEnd(t *testing.T) {
	gen := &fakeGenerator{reply: "Here is a summary."}
	store := &fakeStore{}
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{text: "Result: 99% accuracy"}, gen, store, nil)

	out, err := p.Run(context.Background(), Input{
		Query:         "Summarize my paper",
		DocumentBytes: []byte("%PDF"),
		SessionID:     "s1",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.ReviewCount)
	assert.Equal(t, 1, out.ChunkCount)
	assert.Equal(t, prompt.KindExcerptsOnly, out.TemplateKind)
	assert.True(t, out.RetrievedMatches)

	require.Len(t, gen.gotPrompts, 1)
	assert.Contains(t, gen.gotPrompts[0], "Summarize my paper")
	assert.Contains(t, gen.gotPrompts[0], "Result: 99% accuracy")

	require.Len(t, store.appended, 2)
	assert.Equal(t, appendedTurn{"s1", "user", "Summarize my paper"}, store.appended[0])
	assert.Equal(t, appendedTurn{"s1", "assistant", "Here is a summary."}, store.appended[1])
	assert.Equal(t, 2, out.PersistedTurns)
}

func TestRun_NoSessionIDSkipsPersistence(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	store := &fakeStore{}
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{}, gen, store, nil)

	out, err := p.Run(context.Background(), Input{Query: "q"})
	require.NoError(t, err)
	assert.Empty(t, store.appended)
	assert.Equal(t, 0, out.PersistedTurns)
}

func TestRun_HistoryInjectedIntoPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	store := &fakeStore{history: []llm.Message{
		{Role: "user", Content: "what was my last question"},
	}}
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{}, gen, store, nil)

	_, err := p.Run(context.Background(), Input{Query: "q", SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, gen.gotPrompts, 1)
	assert.Contains(t, gen.gotPrompts[0], "what was my last question")
}

func TestRun_CheckpointSavedAndRestored(t *testing.T) {
	cps := &fakeCheckpoints{}
	gen := &fakeGenerator{reply: "ok"}
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{text: "Result: 99% accuracy"}, gen, &fakeStore{}, cps)

	// First run uploads a document and leaves a checkpoint behind.
	out, err := p.Run(context.Background(), Input{
		Query:         "q",
		DocumentBytes: []byte("%PDF"),
		SessionID:     "s1",
	})
	require.NoError(t, err)
	assert.False(t, out.UsedCheckpoint)
	assert.Equal(t, 1, cps.saved)

	// Second run omits the document and resumes from the checkpoint.
	out, err = p.Run(context.Background(), Input{Query: "q", SessionID: "s1"})
	require.NoError(t, err)
	assert.True(t, out.UsedCheckpoint)
	assert.Equal(t, 1, out.ChunkCount)
	assert.Equal(t, prompt.KindExcerptsOnly, out.TemplateKind)
}

func TestRun_EmbeddingFailureDropsAllChunks(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	p := New(&fakeFetcher{}, &fakeExtractor{text: "some paper text"}, &fakeEmbedder{err: errors.New("embed down")}, gen, &fakeStore{}, nil, nil)

	out, err := p.Run(context.Background(), Input{
		Query:         "q",
		DocumentBytes: []byte("%PDF"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ChunkCount)
	assert.Equal(t, prompt.KindGeneral, out.TemplateKind)
}

func TestRun_Idempotent(t *testing.T) {
	run := func() Output {
		gen := &fakeGenerator{reply: "deterministic"}
		p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{text: "Result: 99% accuracy"}, gen, &fakeStore{}, nil)
		out, err := p.Run(context.Background(), Input{
			Query:         "Summarize my paper",
			DocumentBytes: []byte("%PDF"),
		})
		require.NoError(t, err)
		return out
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestRun_LongDocumentRetrievesTopK(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	longText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)
	p := newTestPipeline(&fakeFetcher{}, &fakeExtractor{text: longText}, gen, &fakeStore{}, nil)

	out, err := p.Run(context.Background(), Input{
		Query:         "fox",
		DocumentBytes: []byte("%PDF"),
	})
	require.NoError(t, err)
	assert.Greater(t, out.ChunkCount, constant.RetrievalTopK)

	require.Len(t, gen.gotPrompts, 1)
	excerptCount := strings.Count(gen.gotPrompts[0], "quick brown fox")
	assert.Greater(t, excerptCount, 0)
}
