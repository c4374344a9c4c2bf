package mapper

import (
	"encoding/json"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/model"

	"gorm.io/datatypes"
)

type AgentRunMapper struct{}

func NewAgentRunMapper() *AgentRunMapper {
	return &AgentRunMapper{}
}

func (m *AgentRunMapper) ToEntity(r *model.AgentRun) *entity.AgentRun {
	if r == nil {
		return nil
	}

	details := map[string]interface{}{}
	if len(r.Details) > 0 {
		_ = json.Unmarshal(r.Details, &details)
	}

	return &entity.AgentRun{
		Id:             r.Id,
		SessionId:      r.SessionId,
		ThreadId:       r.ThreadId,
		Template:       r.Template,
		ReviewCount:    r.ReviewCount,
		ChunkCount:     r.ChunkCount,
		UsedCheckpoint: r.UsedCheckpoint,
		Degraded:       r.Degraded,
		Details:        details,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *AgentRunMapper) ToModel(r *entity.AgentRun) *model.AgentRun {
	if r == nil {
		return nil
	}

	var details datatypes.JSON
	if len(r.Details) > 0 {
		if raw, err := json.Marshal(r.Details); err == nil {
			details = raw
		}
	}

	return &model.AgentRun{
		Id:             r.Id,
		SessionId:      r.SessionId,
		ThreadId:       r.ThreadId,
		Template:       r.Template,
		ReviewCount:    r.ReviewCount,
		ChunkCount:     r.ChunkCount,
		UsedCheckpoint: r.UsedCheckpoint,
		Degraded:       r.Degraded,
		Details:        details,
		CreatedAt:      r.CreatedAt,
	}
}
