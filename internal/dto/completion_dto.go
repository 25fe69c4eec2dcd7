package dto

import "github.com/google/uuid"

// PublishCompletionMessage is the payload enqueued when a questionnaire
// finishes. The pipeline reloads the response from storage by id, so a
// crashed worker loses only the in-flight task, never the data.
type PublishCompletionMessage struct {
	ResponseId uuid.UUID `json:"response_id"`
	ChatId     int64     `json:"chat_id"`
}
