package service

import (
	"context"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/internal/repository/memory"
	"rebuttal-agent-be/internal/repository/specification"
	"rebuttal-agent-be/internal/repository/unitofwork"
)

const checkpointLogModule = "checkpoint_service"

// ICheckpointService stores a session's indexed paper in two layers:
// the go-cache copy serves repeat requests in-process, the paper_chunks
// table survives restarts.
type ICheckpointService interface {
	Save(ctx context.Context, sessionID string, chunks []string, vectors [][]float32) error
	Load(ctx context.Context, sessionID string) ([]string, [][]float32, bool)
}

type checkpointService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CheckpointCache
	logger     logger.ILogger
}

func NewCheckpointService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.CheckpointCache,
	log logger.ILogger,
) ICheckpointService {
	return &checkpointService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

func (s *checkpointService) Save(ctx context.Context, sessionID string, chunks []string, vectors [][]float32) error {
	s.cache.Save(&memory.Checkpoint{
		SessionID: sessionID,
		Chunks:    chunks,
		Vectors:   vectors,
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	// A new upload replaces the previous checkpoint wholesale.
	if err := uow.PaperChunkRepository().DeleteBySessionId(ctx, sessionID); err != nil {
		_ = uow.Rollback()
		return err
	}

	rows := make([]*entity.PaperChunk, len(chunks))
	for i, chunk := range chunks {
		var vector []float32
		if i < len(vectors) {
			vector = vectors[i]
		}
		rows[i] = &entity.PaperChunk{
			SessionId:  sessionID,
			ChunkIndex: i,
			Document:   chunk,
			Embedding:  vector,
		}
	}
	if err := uow.PaperChunkRepository().CreateBatch(ctx, rows); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

func (s *checkpointService) Load(ctx context.Context, sessionID string) ([]string, [][]float32, bool) {
	if cp, found := s.cache.Get(sessionID); found {
		return cp.Chunks, cp.Vectors, true
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.PaperChunkRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "chunk_index", Desc: false},
	)
	if err != nil {
		s.logger.Warn(checkpointLogModule, "failed to load paper chunks", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, nil, false
	}
	if len(rows) == 0 {
		return nil, nil, false
	}

	chunks := make([]string, len(rows))
	vectors := make([][]float32, len(rows))
	for i, row := range rows {
		chunks[i] = row.Document
		vectors[i] = row.Embedding
	}

	// Refill the cache so the next request skips the database.
	s.cache.Save(&memory.Checkpoint{
		SessionID: sessionID,
		Chunks:    chunks,
		Vectors:   vectors,
	})

	return chunks, vectors, true
}
