package contract

import (
	"context"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionTurnRepository interface {
	Create(ctx context.Context, turn *entity.SessionTurn) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
