package contract

import (
	"context"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/specification"
)

// ScoredCorpusChunk wraps a chunk with its cosine similarity (1.0 = identical)
type ScoredCorpusChunk struct {
	Chunk      *entity.CorpusChunk
	Similarity float64
}

type CorpusChunkRepository interface {
	Create(ctx context.Context, chunk *entity.CorpusChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.CorpusChunk) error
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CorpusChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar returns the top-k chunks by pgvector cosine distance,
	// nearest first.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredCorpusChunk, error)
}
