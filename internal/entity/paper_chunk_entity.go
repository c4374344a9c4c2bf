package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaperChunk is one embedded slice of an uploaded paper, persisted per
// session so later requests can resume without re-uploading the file.
type PaperChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId  string
	ChunkIndex int
	Document   string
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
