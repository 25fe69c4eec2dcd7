package entity

import (
	"time"

	"github.com/google/uuid"
)

// CorpusChunk is one embedded passage of the company knowledge base.
type CorpusChunk struct {
	Id         uuid.UUID
	Document   string // passage text
	Source     string // originating file
	ChunkIndex int
	Embedding  []float32
	CreatedAt  time.Time
}
