package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgentRun is the audit record of one pipeline invocation, written
// asynchronously after the response has already been delivered.
type AgentRun struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId      string
	ThreadId       string
	Template       string
	ReviewCount    int
	ChunkCount     int
	UsedCheckpoint bool
	Degraded       bool
	Details        map[string]interface{}
	CreatedAt      time.Time
}
