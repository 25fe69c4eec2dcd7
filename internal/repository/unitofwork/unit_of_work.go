package unitofwork

import (
	"context"

	"pdq-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	QuestionnaireResponseRepository() contract.QuestionnaireResponseRepository
	CorpusChunkRepository() contract.CorpusChunkRepository
	FailedArtifactRepository() contract.FailedArtifactRepository
}
