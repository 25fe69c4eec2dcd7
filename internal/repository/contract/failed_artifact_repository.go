package contract

import (
	"context"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FailedArtifactRepository interface {
	Create(ctx context.Context, artifact *entity.CompletionArtifact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CompletionArtifact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
