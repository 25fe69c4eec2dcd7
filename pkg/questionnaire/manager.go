package questionnaire

import (
	"errors"
	"fmt"
	"time"

	"pdq-assistant-be/internal/entity"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by Advance when no session exists for the
// chat. Callers treat it as non-fatal and route the message elsewhere.
var ErrSessionNotFound = errors.New("no active questionnaire session")

// FinalizeFunc persists a completed response and hands it to the completion
// pipeline. It runs inside the chat's critical section; if it fails the
// session is restored so the user can retry by resending the answer.
type FinalizeFunc func(response *entity.QuestionnaireResponse) error

// Manager drives per-chat questionnaire sessions over a shared, immutable
// definition.
type Manager struct {
	def   *Definition
	store SessionStore
}

func NewManager(def *Definition, store SessionStore) *Manager {
	return &Manager{
		def:   def,
		store: store,
	}
}

// Start creates a session for the chat at the first question. An existing
// session is replaced and its answers discarded: restart-by-command is the
// documented recovery path, so Start stays idempotent. Returns nil when the
// definition is empty; no session is created in that case.
func (m *Manager) Start(chatId int64) *entity.Question {
	if m.def.Len() == 0 {
		return nil
	}

	var first *entity.Question
	m.store.WithLock(chatId, func() {
		m.store.Save(&Session{
			ChatId:    chatId,
			Index:     0,
			Answers:   make([]entity.Answer, 0, m.def.Len()),
			StartedAt: time.Now(),
		})
		first = m.def.At(0)
	})
	return first
}

// Advance records the answer for the chat's current question and moves on.
// It returns the next question, or a completed response once the last
// question is answered. On completion, finalize runs before the session is
// destroyed — still under the chat's lock, so a concurrent Start or Cancel
// cannot observe a half-finalized session.
//
// The answer text is stored verbatim for every question kind; choice answers
// are not checked against the option list.
func (m *Manager) Advance(chatId int64, answerText string, finalize FinalizeFunc) (*entity.Question, *entity.QuestionnaireResponse, error) {
	var (
		next      *entity.Question
		completed *entity.QuestionnaireResponse
		err       error
	)

	m.store.WithLock(chatId, func() {
		session, ok := m.store.Get(chatId)
		if !ok {
			err = ErrSessionNotFound
			return
		}

		current := m.def.At(session.Index)
		session.Answers = append(session.Answers, entity.Answer{
			QuestionId: current.Id,
			Text:       answerText,
		})
		session.Index++

		if session.Index < m.def.Len() {
			m.store.Save(session)
			next = m.def.At(session.Index)
			return
		}

		// Completing: snapshot, persist, destroy. Never observable as a
		// lingering state.
		response := &entity.QuestionnaireResponse{
			Id:          uuid.New(),
			ChatId:      chatId,
			StartedAt:   session.StartedAt,
			CompletedAt: time.Now(),
			Answers:     append([]entity.Answer(nil), session.Answers...),
		}

		if finalize != nil {
			if finErr := finalize(response); finErr != nil {
				// Roll the last answer back so the session invariant holds
				// and the user can retry by resending it.
				session.Answers = session.Answers[:len(session.Answers)-1]
				session.Index--
				m.store.Save(session)
				err = fmt.Errorf("finalize questionnaire: %w", finErr)
				return
			}
		}

		m.store.Delete(chatId)
		completed = response
	})

	return next, completed, err
}

// Cancel removes the chat's session if one exists. Idempotent.
func (m *Manager) Cancel(chatId int64) bool {
	existed := false
	m.store.WithLock(chatId, func() {
		if _, ok := m.store.Get(chatId); ok {
			m.store.Delete(chatId)
			existed = true
		}
	})
	return existed
}

func (m *Manager) IsActive(chatId int64) bool {
	_, ok := m.store.Get(chatId)
	return ok
}

// Definition exposes the shared question list (read-only) for rendering.
func (m *Manager) Definition() *Definition {
	return m.def
}
