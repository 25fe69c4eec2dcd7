package contract

import (
	"context"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type QuestionnaireResponseRepository interface {
	Create(ctx context.Context, response *entity.QuestionnaireResponse) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QuestionnaireResponse, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QuestionnaireResponse, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
