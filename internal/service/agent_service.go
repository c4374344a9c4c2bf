package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rebuttal-agent-be/internal/dto"
	"rebuttal-agent-be/internal/pkg/logger"
	"rebuttal-agent-be/pkg/events"
	"rebuttal-agent-be/pkg/rag/pipeline"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const agentLogModule = "agent_service"

type IAgentService interface {
	Run(ctx context.Context, req *dto.RunAgentRequest) (*dto.RunAgentResponse, error)
}

type agentService struct {
	pipeline  *pipeline.Pipeline
	pubSub    *gochannel.GoChannel
	topicName string
	logger    logger.ILogger
}

func NewAgentService(
	p *pipeline.Pipeline,
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
) IAgentService {
	return &agentService{
		pipeline:  p,
		pubSub:    pubSub,
		topicName: topicName,
		logger:    log,
	}
}

// Run executes one pipeline invocation. A degraded run still returns a
// response; only a failed review fetch (with a thread id present) or an
// unexpected pipeline error reaches the caller.
func (s *agentService) Run(ctx context.Context, req *dto.RunAgentRequest) (*dto.RunAgentResponse, error) {
	out, err := s.pipeline.Run(ctx, pipeline.Input{
		ThreadID:      req.ThreadId,
		Query:         req.Query,
		DocumentBytes: req.Paper,
		SessionID:     req.SessionId,
	})
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			s.logger.Error(agentLogModule, "pipeline aborted", map[string]interface{}{
				"kind":  string(stageErr.Kind),
				"error": stageErr.Error(),
			})
		}
		return nil, err
	}

	s.publishRunCompleted(req, out)

	return &dto.RunAgentResponse{Response: out.Rebuttal}, nil
}

// publishRunCompleted hands the run's audit facts to the async
// consumer. Publishing is best effort; the response has already been
// produced.
func (s *agentService) publishRunCompleted(req *dto.RunAgentRequest, out pipeline.Output) {
	if s.pubSub == nil {
		return
	}

	degradedKinds := make([]string, 0, len(out.DegradedStages))
	for _, kind := range out.DegradedStages {
		degradedKinds = append(degradedKinds, string(kind))
	}

	payload := dto.AgentRunMessage{
		SessionId:      req.SessionId,
		ThreadId:       req.ThreadId,
		Template:       out.TemplateKind.String(),
		ReviewCount:    out.ReviewCount,
		ChunkCount:     out.ChunkCount,
		UsedCheckpoint: out.UsedCheckpoint,
		Degraded:       len(out.DegradedStages) > 0,
		Details: map[string]interface{}{
			"degraded_stages":   degradedKinds,
			"persisted_turns":   out.PersistedTurns,
			"retrieved_matches": out.RetrievedMatches,
		},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn(agentLogModule, "failed to marshal run audit payload", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	evt := events.NewAgentRunCompleted(payload.Details)
	msg := message.NewMessage(watermill.NewUUID(), raw)
	msg.Metadata.Set("event_type", evt.EventType())
	msg.Metadata.Set("occurred_at", evt.Timestamp().UTC().Format(time.RFC3339))
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Warn(agentLogModule, "failed to publish run audit event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
