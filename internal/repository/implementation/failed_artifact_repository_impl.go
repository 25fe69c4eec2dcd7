package implementation

import (
	"context"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/mapper"
	"pdq-assistant-be/internal/model"
	"pdq-assistant-be/internal/repository/contract"
	"pdq-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FailedArtifactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArtifactMapper
}

func NewFailedArtifactRepository(db *gorm.DB) contract.FailedArtifactRepository {
	return &FailedArtifactRepositoryImpl{
		db:     db,
		mapper: mapper.NewArtifactMapper(),
	}
}

func (r *FailedArtifactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FailedArtifactRepositoryImpl) Create(ctx context.Context, artifact *entity.CompletionArtifact) error {
	m := r.mapper.ToModel(artifact)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	artifact.Id = m.Id
	return nil
}

func (r *FailedArtifactRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FailedArtifact{}, id).Error
}

func (r *FailedArtifactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompletionArtifact, error) {
	var models []*model.FailedArtifact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CompletionArtifact, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *FailedArtifactRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FailedArtifact{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
