package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionnaireResponse struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatId      int64          `gorm:"not null;index"`
	StartedAt   time.Time      `gorm:"not null"`
	CompletedAt time.Time      `gorm:"not null;index"`
	Answers     datatypes.JSON `gorm:"type:jsonb;not null"` // ordered [{question_id, text}]
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (QuestionnaireResponse) TableName() string {
	return "questionnaire_responses"
}
