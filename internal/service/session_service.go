package service

import (
	"context"

	"rebuttal-agent-be/internal/constant"
	"rebuttal-agent-be/internal/dto"
	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/internal/repository/memory"
	"rebuttal-agent-be/internal/repository/specification"
	"rebuttal-agent-be/internal/repository/unitofwork"
	"rebuttal-agent-be/pkg/llm"
)

const sessionLogModule = "session_service"

// ISessionService is the durable conversation store. Append and
// LoadHistory absorb their own failures so the pipeline never has to
// branch on them; the HTTP-facing methods do return errors.
type ISessionService interface {
	Append(ctx context.Context, sessionID, role, content string)
	LoadHistory(ctx context.Context, sessionID string) []llm.Message
	GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.CheckpointCache
	logger     logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.CheckpointCache,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     log,
	}
}

func (s *sessionService) Append(ctx context.Context, sessionID, role, content string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turn := &entity.SessionTurn{
		SessionId: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := uow.SessionTurnRepository().Create(ctx, turn); err != nil {
		s.logger.Error(sessionLogModule, "failed to persist session turn", map[string]interface{}{
			"session_id": sessionID,
			"role":       role,
			"error":      err.Error(),
		})
	}
}

// LoadHistory returns the most recent turns for a session in ascending
// order, capped at the history window. Any failure yields an empty
// history instead of an error.
func (s *sessionService) LoadHistory(ctx context.Context, sessionID string) []llm.Message {
	turns, err := s.recentTurns(ctx, sessionID)
	if err != nil {
		s.logger.Warn(sessionLogModule, "failed to load session history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil
	}

	messages := make([]llm.Message, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, llm.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return messages
}

func (s *sessionService) GetHistory(ctx context.Context, sessionID string) (*dto.SessionHistoryResponse, error) {
	turns, err := s.recentTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.SessionTurnDTO, 0, len(turns))
	for _, turn := range turns {
		dtos = append(dtos, dto.SessionTurnDTO{
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}
	return &dto.SessionHistoryResponse{
		SessionId: sessionID,
		Turns:     dtos,
	}, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.SessionTurnRepository().DeleteBySessionId(ctx, sessionID); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.PaperChunkRepository().DeleteBySessionId(ctx, sessionID); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.cache.Delete(sessionID)
	return nil
}

// recentTurns fetches newest-first up to the window cap, then reverses
// so callers always see ascending creation order.
func (s *sessionService) recentTurns(ctx context.Context, sessionID string) ([]*entity.SessionTurn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.SessionTurnRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: constant.SessionHistoryWindow},
	)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
