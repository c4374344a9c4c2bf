package contract

import (
	"context"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/repository/specification"
)

type AgentRunRepository interface {
	Create(ctx context.Context, run *entity.AgentRun) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentRun, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
