package mapper

import (
	"time"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PaperChunkMapper struct{}

func NewPaperChunkMapper() *PaperChunkMapper {
	return &PaperChunkMapper{}
}

func (m *PaperChunkMapper) ToEntity(c *model.PaperChunk) *entity.PaperChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		d := c.DeletedAt.Time
		deletedAt = &d
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		u := c.UpdatedAt
		updatedAt = &u
	}

	return &entity.PaperChunk{
		Id:         c.Id,
		SessionId:  c.SessionId,
		ChunkIndex: c.ChunkIndex,
		Document:   c.Document,
		Embedding:  c.Embedding.Slice(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  c.DeletedAt.Valid,
	}
}

func (m *PaperChunkMapper) ToModel(c *entity.PaperChunk) *model.PaperChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.PaperChunk{
		Id:         c.Id,
		SessionId:  c.SessionId,
		ChunkIndex: c.ChunkIndex,
		Document:   c.Document,
		Embedding:  pgvector.NewVector(c.Embedding),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}
