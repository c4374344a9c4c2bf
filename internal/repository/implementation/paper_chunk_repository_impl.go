package implementation

import (
	"context"

	"rebuttal-agent-be/internal/entity"
	"rebuttal-agent-be/internal/mapper"
	"rebuttal-agent-be/internal/model"
	"rebuttal-agent-be/internal/repository/contract"
	"rebuttal-agent-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PaperChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaperChunkMapper
}

func NewPaperChunkRepository(db *gorm.DB) contract.PaperChunkRepository {
	return &PaperChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaperChunkMapper(),
	}
}

func (r *PaperChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaperChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*entity.PaperChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.PaperChunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PaperChunkRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.PaperChunk{}).Error
}

func (r *PaperChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaperChunk, error) {
	var models []*model.PaperChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PaperChunk, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PaperChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.PaperChunk{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
