package questionnaire

import (
	"time"

	"pdq-assistant-be/internal/entity"
)

// Session is a chat's in-progress questionnaire state. Index counts answered
// questions: Answers holds exactly the answers for questions below Index, in
// definition order. Index == len(definition) never escapes Advance; such a
// session is finalized and destroyed in the same critical section.
type Session struct {
	ChatId    int64
	Index     int
	Answers   []entity.Answer
	StartedAt time.Time
}

// SessionStore is the per-chat session state holder. WithLock must give the
// callback exclusive access for that chat id: two transitions for the same
// chat never interleave, transitions for distinct chats may run concurrently.
type SessionStore interface {
	Get(chatId int64) (*Session, bool)
	Save(session *Session)
	Delete(chatId int64)
	WithLock(chatId int64, fn func())
}
