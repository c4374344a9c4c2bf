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

type AgentRunRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentRunMapper
}

func NewAgentRunRepository(db *gorm.DB) contract.AgentRunRepository {
	return &AgentRunRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentRunMapper(),
	}
}

func (r *AgentRunRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AgentRunRepositoryImpl) Create(ctx context.Context, run *entity.AgentRun) error {
	m := r.mapper.ToModel(run)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*run = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentRunRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentRun, error) {
	var models []*model.AgentRun
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AgentRun, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AgentRunRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AgentRun{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
