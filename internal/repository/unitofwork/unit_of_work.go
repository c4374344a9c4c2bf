package unitofwork

import (
	"context"

	"rebuttal-agent-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionTurnRepository() contract.SessionTurnRepository
	PaperChunkRepository() contract.PaperChunkRepository
	AgentRunRepository() contract.AgentRunRepository
}
