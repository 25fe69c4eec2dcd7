package model

import (
	"time"

	"github.com/google/uuid"
)

// FailedArtifact rows exist for operator recovery only. A row means delivery
// failed and both the response record and the rendered document were retained.
type FailedArtifact struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResponseId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ChatId       int64     `gorm:"not null"`
	DocumentPath string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(16);not null"`
	Reason       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (FailedArtifact) TableName() string {
	return "failed_artifacts"
}
