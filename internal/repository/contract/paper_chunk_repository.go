package contract

import (
	"context"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/repository/specification"
)

type PaperChunkRepository interface {
	CreateBatch(ctx context.Context, chunks []*entity.PaperChunk) error
	DeleteBySessionId(ctx context.Context, sessionId string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaperChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
