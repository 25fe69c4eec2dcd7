package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArtifactStatusPending   = "pending"
	ArtifactStatusDelivered = "delivered"
	ArtifactStatusFailed    = "failed"
)

// CompletionArtifact tracks one completion pipeline run. It only reaches the
// database when delivery fails; successful runs delete everything they
// produced.
type CompletionArtifact struct {
	Id           uuid.UUID
	ResponseId   uuid.UUID
	ChatId       int64
	DocumentPath string
	Status       string
	Reason       string
	CreatedAt    time.Time
}
