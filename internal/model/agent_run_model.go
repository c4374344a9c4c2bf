package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AgentRun struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string         `gorm:"type:varchar(255);index"`
	ThreadId       string         `gorm:"type:varchar(512)"`
	Template       string         `gorm:"type:varchar(50)"`
	ReviewCount    int            `gorm:"default:0"`
	ChunkCount     int            `gorm:"default:0"`
	UsedCheckpoint bool           `gorm:"default:false"`
	Degraded       bool           `gorm:"default:false"`
	Details        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (AgentRun) TableName() string {
	return "agent_runs"
}
