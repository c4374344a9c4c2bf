package service

import (
	"context"
	"encoding/json"

	"rebuttal-agent-be/internal/dto"
	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/internal/repository/unitofwork"
	"rebuttal-agent-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const auditLogModule = "audit_service"

// IAuditService consumes run-completed events and persists them as
// agent_runs rows, off the request path.
type IAuditService interface {
	Consume(ctx context.Context) error
}

type auditService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuditService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IAuditService {
	return &auditService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(ctx context.Context, msg *message.Message) {
	if et := msg.Metadata.Get("event_type"); et != "" && et != events.AgentRunCompletedType {
		msg.Ack() // Not ours, drop it
		return
	}

	var payload dto.AgentRunMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(auditLogModule, "failed to unmarshal audit message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	run := &entity.AgentRun{
		SessionId:      payload.SessionId,
		ThreadId:       payload.ThreadId,
		Template:       payload.Template,
		ReviewCount:    payload.ReviewCount,
		ChunkCount:     payload.ChunkCount,
		UsedCheckpoint: payload.UsedCheckpoint,
		Degraded:       payload.Degraded,
		Details:        payload.Details,
	}
	if err := uow.AgentRunRepository().Create(ctx, run); err != nil {
		s.logger.Error(auditLogModule, "failed to persist agent run", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
