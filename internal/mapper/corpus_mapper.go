package mapper

import (
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CorpusMapper struct{}

func NewCorpusMapper() *CorpusMapper {
	return &CorpusMapper{}
}

func (m *CorpusMapper) ToEntity(c *model.CorpusChunk) *entity.CorpusChunk {
	if c == nil {
		return nil
	}
	return &entity.CorpusChunk{
		Id:         c.Id,
		Document:   c.Document,
		Source:     c.Source,
		ChunkIndex: c.ChunkIndex,
		Embedding:  c.EmbeddingValue.Slice(),
		CreatedAt:  c.CreatedAt,
	}
}

func (m *CorpusMapper) ToModel(c *entity.CorpusChunk) *model.CorpusChunk {
	if c == nil {
		return nil
	}
	return &model.CorpusChunk{
		Id:             c.Id,
		Document:       c.Document,
		Source:         c.Source,
		ChunkIndex:     c.ChunkIndex,
		EmbeddingValue: pgvector.NewVector(c.Embedding),
		CreatedAt:      c.CreatedAt,
	}
}

type ArtifactMapper struct{}

func NewArtifactMapper() *ArtifactMapper {
	return &ArtifactMapper{}
}

func (m *ArtifactMapper) ToEntity(a *model.FailedArtifact) *entity.CompletionArtifact {
	if a == nil {
		return nil
	}
	return &entity.CompletionArtifact{
		Id:           a.Id,
		ResponseId:   a.ResponseId,
		ChatId:       a.ChatId,
		DocumentPath: a.DocumentPath,
		Status:       a.Status,
		Reason:       a.Reason,
		CreatedAt:    a.CreatedAt,
	}
}

func (m *ArtifactMapper) ToModel(a *entity.CompletionArtifact) *model.FailedArtifact {
	if a == nil {
		return nil
	}
	return &model.FailedArtifact{
		Id:           a.Id,
		ResponseId:   a.ResponseId,
		ChatId:       a.ChatId,
		DocumentPath: a.DocumentPath,
		Status:       a.Status,
		Reason:       a.Reason,
		CreatedAt:    a.CreatedAt,
	}
}
