package dto

import "time"

type RunAgentRequest struct {
	ThreadId  string `json:"thread_id" form:"thread_id"`
	Query     string `json:"query" form:"query" validate:"required"`
	SessionId string `json:"session_id" form:"session_id"`
	Paper     []byte `json:"-" form:"-"`
}

type RunAgentResponse struct {
	Response string `json:"response"`
}

type SessionTurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionHistoryResponse struct {
	SessionId string           `json:"session_id"`
	Turns     []SessionTurnDTO `json:"turns"`
}

// AgentRunMessage is the watermill payload carrying one run's audit
// facts from the request path to the async consumer.
type AgentRunMessage struct {
	SessionId      string                 `json:"session_id"`
	ThreadId       string                 `json:"thread_id"`
	Template       string                 `json:"template"`
	ReviewCount    int                    `json:"review_count"`
	ChunkCount     int                    `json:"chunk_count"`
	UsedCheckpoint bool                   `json:"used_checkpoint"`
	Degraded       bool                   `json:"degraded"`
	Details        map[string]interface{} `json:"details,omitempty"`
}
