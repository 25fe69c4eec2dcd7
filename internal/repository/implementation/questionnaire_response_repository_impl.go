package implementation

import (
	"context"
	"errors"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/mapper"
	"pdq-assistant-be/internal/model"
	"pdq-assistant-be/internal/repository/contract"
	"pdq-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionnaireResponseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResponseMapper
}

func NewQuestionnaireResponseRepository(db *gorm.DB) contract.QuestionnaireResponseRepository {
	return &QuestionnaireResponseRepositoryImpl{
		db:     db,
		mapper: mapper.NewResponseMapper(),
	}
}

func (r *QuestionnaireResponseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QuestionnaireResponseRepositoryImpl) Create(ctx context.Context, response *entity.QuestionnaireResponse) error {
	m, err := r.mapper.ToModel(response)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	response.Id = m.Id
	return nil
}

func (r *QuestionnaireResponseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.QuestionnaireResponse{}, id).Error
}

func (r *QuestionnaireResponseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuestionnaireResponse, error) {
	var m model.QuestionnaireResponse
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *QuestionnaireResponseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuestionnaireResponse, error) {
	var models []*model.QuestionnaireResponse
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.QuestionnaireResponse, len(models))
	for i, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}

func (r *QuestionnaireResponseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.QuestionnaireResponse{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
