package entity

import (
	"time"

	"github.com/google/uuid"
)

// Answer is one collected answer. Answers are kept as an ordered slice, not a
// map, so the persisted record preserves question order.
type Answer struct {
	QuestionId string `json:"question_id"`
	Text       string `json:"text"`
}

// QuestionnaireResponse is the finalized snapshot of one completed
// questionnaire run. It is written to storage before the in-memory session is
// destroyed, so a crash between finalize and delivery loses nothing.
type QuestionnaireResponse struct {
	Id          uuid.UUID
	ChatId      int64
	StartedAt   time.Time
	CompletedAt time.Time
	Answers     []Answer
}
