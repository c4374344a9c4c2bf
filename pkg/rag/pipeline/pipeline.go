package pipeline

import (
	"context"
	"strings"

	"rebuttal-agent-be/internal/constant"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/pkg/embedding"
	"rebuttal-agent-be/pkg/llm"
	"rebuttal-agent-be/pkg/openreview"
	"rebuttal-agent-be/pkg/rag/chunker"
	"rebuttal-agent-be/pkg/rag/index"
	"rebuttal-agent-be/pkg/rag/prompt"
	"rebuttal-agent-be/pkg/rag/state"
)

const logModule = "rag_pipeline"

// ReviewFetcher loads the structured replies of a review thread.
type ReviewFetcher interface {
	FetchReplies(ctx context.Context, forumID string) ([]openreview.Review, error)
}

// TextExtractor converts raw document bytes into plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Generator produces text from a composed prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error)
}

// SessionStore persists and replays conversation turns. Both methods
// absorb their own failures; the pipeline never branches on them.
type SessionStore interface {
	Append(ctx context.Context, sessionID, role, content string)
	LoadHistory(ctx context.Context, sessionID string) []llm.Message
}

// CheckpointStore keeps a session's chunks and embeddings so a later
// request can resume without re-uploading the paper.
type CheckpointStore interface {
	Save(ctx context.Context, sessionID string, chunks []string, vectors [][]float32) error
	Load(ctx context.Context, sessionID string) ([]string, [][]float32, bool)
}

type Input struct {
	ThreadID      string
	Query         string
	DocumentBytes []byte
	SessionID     string
}

// Output is the result of one completed run, including runs that
// degraded along the way.
type Output struct {
	Rebuttal         string
	TemplateKind     prompt.Kind
	ReviewCount      int
	ChunkCount       int
	UsedCheckpoint   bool
	DegradedStages   []ErrorKind
	PersistedTurns   int
	RetrievedMatches bool
}

// Pipeline wires the four stages into a fixed sequence. All
// collaborators are injected; the pipeline itself holds no connection
// state and is safe for concurrent Run calls.
type Pipeline struct {
	fetcher     ReviewFetcher
	extractor   TextExtractor
	embedder    embedding.EmbeddingProvider
	generator   Generator
	store       SessionStore
	checkpoints CheckpointStore
	log         logger.ILogger
}

func New(
	fetcher ReviewFetcher,
	extractor TextExtractor,
	embedder embedding.EmbeddingProvider,
	generator Generator,
	store SessionStore,
	checkpoints CheckpointStore,
	log logger.ILogger,
) *Pipeline {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Pipeline{
		fetcher:     fetcher,
		extractor:   extractor,
		embedder:    embedder,
		generator:   generator,
		checkpoints: checkpoints,
		store:       store,
		log:         log,
	}
}

// Run executes the fetch → extract+index → retrieve+compose →
// generate+persist sequence once, no retries. The only fatal path is a
// failed review fetch for a non-empty thread id; everything else
// degrades and the run still produces a response.
func (p *Pipeline) Run(ctx context.Context, in Input) (Output, error) {
	st := state.PipelineState{
		ThreadID:      in.ThreadID,
		Query:         in.Query,
		DocumentBytes: in.DocumentBytes,
		SessionID:     in.SessionID,
	}

	var out Output

	if st.SessionID != "" && p.store != nil {
		st.History = p.store.LoadHistory(ctx, st.SessionID)
	}

	st, err := p.fetchReviews(ctx, st)
	if err != nil {
		return Output{}, err
	}
	out.ReviewCount = len(st.Reviews)

	st, usedCheckpoint, stageErr := p.extractAndIndex(ctx, st)
	if stageErr != nil {
		out.DegradedStages = append(out.DegradedStages, stageErr.Kind)
	}
	out.ChunkCount = len(st.DocumentChunks)
	out.UsedCheckpoint = usedCheckpoint

	st, composed := p.retrieveAndCompose(ctx, st)
	out.TemplateKind = composed.Kind
	out.RetrievedMatches = st.RetrievedExcerpts != "" && st.RetrievedExcerpts != constant.RetrievalNoMatchSentinel

	st, genErr, persistCount := p.generateAndPersist(ctx, st, composed)
	if genErr != nil {
		out.DegradedStages = append(out.DegradedStages, genErr.Kind)
	}
	out.PersistedTurns = persistCount
	out.Rebuttal = st.Rebuttal

	return out, nil
}

// fetchReviews is stage 1. An empty thread id is a clean skip; a
// present-but-broken one fails the run.
func (p *Pipeline) fetchReviews(ctx context.Context, st state.PipelineState) (state.PipelineState, *StageError) {
	if st.ThreadID == "" {
		return st, nil
	}

	forumID := openreview.DeriveForumID(st.ThreadID)
	p.log.Info(logModule, "fetching reviews", map[string]interface{}{
		"forum_id": forumID,
	})

	reviews, err := p.fetcher.FetchReplies(ctx, forumID)
	if err != nil {
		p.log.Error(logModule, "review fetch failed", map[string]interface{}{
			"forum_id": forumID,
			"error":    err.Error(),
		})
		return st, newStageError(ErrKindReviewFetch, err)
	}

	st.Reviews = reviews
	return st, nil
}

// extractAndIndex is stage 2. Extraction failures degrade to empty
// text. When no document was uploaded, a stored checkpoint for the
// session takes its place.
func (p *Pipeline) extractAndIndex(ctx context.Context, st state.PipelineState) (state.PipelineState, bool, *StageError) {
	if len(st.DocumentBytes) == 0 {
		if st.SessionID != "" && p.checkpoints != nil {
			if chunks, vectors, ok := p.checkpoints.Load(ctx, st.SessionID); ok {
				st.DocumentChunks = chunks
				st.ChunkVectors = vectors
				p.log.Info(logModule, "restored session checkpoint", map[string]interface{}{
					"session_id": st.SessionID,
					"chunks":     len(chunks),
				})
				return st, true, nil
			}
		}
		return st, false, nil
	}

	text, err := p.extractor.ExtractText(st.DocumentBytes)
	if err != nil {
		p.log.Error(logModule, "document extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
		return st, false, newStageError(ErrKindExtraction, err)
	}
	st.DocumentText = strings.TrimSpace(text)

	if st.DocumentText == "" {
		return st, false, nil
	}

	chunks := chunker.Split(st.DocumentText)
	var kept []string
	var vectors [][]float32
	for _, chunk := range chunks {
		res, err := p.embedder.Generate(chunk, constant.EmbeddingTaskTypeDocument)
		if err != nil {
			p.log.Warn(logModule, "chunk embedding failed, dropping chunk", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}
		kept = append(kept, chunk)
		vectors = append(vectors, res.Embedding.Values)
	}
	st.DocumentChunks = kept
	st.ChunkVectors = vectors

	if st.SessionID != "" && p.checkpoints != nil && len(kept) > 0 {
		if err := p.checkpoints.Save(ctx, st.SessionID, kept, vectors); err != nil {
			p.log.Warn(logModule, "checkpoint save failed", map[string]interface{}{
				"session_id": st.SessionID,
				"error":      err.Error(),
			})
		}
	}

	return st, false, nil
}

// retrieveAndCompose is stage 3: top-k retrieval over a fresh index,
// then exhaustive template dispatch.
func (p *Pipeline) retrieveAndCompose(ctx context.Context, st state.PipelineState) (state.PipelineState, prompt.Context) {
	if len(st.DocumentChunks) > 0 {
		st.RetrievedExcerpts = p.retrieve(st)
	}

	composed := prompt.NewContext(st.Query, st.Reviews, st.RetrievedExcerpts, st.History)
	return st, composed
}

func (p *Pipeline) retrieve(st state.PipelineState) string {
	idx := index.NewMemory()
	for i, chunk := range st.DocumentChunks {
		if i >= len(st.ChunkVectors) {
			break
		}
		if err := idx.Add(chunk, st.ChunkVectors[i]); err != nil {
			p.log.Warn(logModule, "index insert failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if idx.Len() == 0 {
		return constant.RetrievalNoMatchSentinel
	}

	probe, err := p.embedder.Generate(st.Query, constant.EmbeddingTaskTypeQuery)
	if err != nil {
		p.log.Warn(logModule, "query embedding failed", map[string]interface{}{
			"error": err.Error(),
		})
		return constant.RetrievalNoMatchSentinel
	}

	results := idx.Search(probe.Embedding.Values, constant.RetrievalTopK)
	if len(results) == 0 {
		return constant.RetrievalNoMatchSentinel
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n\n")
}

// generateAndPersist is stage 4. A generation failure yields the fixed
// fallback message; persistence failures never reach the caller.
func (p *Pipeline) generateAndPersist(ctx context.Context, st state.PipelineState, composed prompt.Context) (state.PipelineState, *StageError, int) {
	var stageErr *StageError

	result, err := p.generator.Generate(ctx, composed.Render())
	if err != nil {
		p.log.Error(logModule, "generation failed", map[string]interface{}{
			"template": composed.Kind.String(),
			"error":    err.Error(),
		})
		result = constant.GenerationFallbackMessage
		stageErr = newStageError(ErrKindGeneration, err)
	}
	st.Rebuttal = result

	st.History = append(st.History,
		llm.Message{Role: constant.SessionTurnRoleUser, Content: st.Query},
		llm.Message{Role: constant.SessionTurnRoleAssistant, Content: st.Rebuttal},
	)

	persisted := 0
	if st.SessionID != "" && p.store != nil {
		p.store.Append(ctx, st.SessionID, constant.SessionTurnRoleUser, st.Query)
		p.store.Append(ctx, st.SessionID, constant.SessionTurnRoleAssistant, st.Rebuttal)
		persisted = 2
	}

	return st, stageErr, persisted
}
