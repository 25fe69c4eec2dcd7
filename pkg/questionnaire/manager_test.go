package questionnaire_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/memory"
	"pdq-assistant-be/pkg/questionnaire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition(t *testing.T, n int) *questionnaire.Definition {
	t.Helper()
	questions := make([]entity.Question, n)
	for i := range questions {
		questions[i] = entity.Question{
			Id:      fmt.Sprintf("q%d", i+1),
			Section: "General",
			Text:    fmt.Sprintf("Question %d?", i+1),
			Kind:    entity.AnswerKindText,
		}
	}
	def, err := questionnaire.NewDefinition(questions)
	require.NoError(t, err)
	return def
}

func newManager(t *testing.T, n int) *questionnaire.Manager {
	t.Helper()
	return questionnaire.NewManager(testDefinition(t, n), memory.NewSessionRepository())
}

func TestStartEmptyDefinition(t *testing.T) {
	def, err := questionnaire.NewDefinition(nil)
	require.NoError(t, err)

	m := questionnaire.NewManager(def, memory.NewSessionRepository())

	assert.Nil(t, m.Start(42))
	assert.False(t, m.IsActive(42))
}

func TestFullRun(t *testing.T) {
	m := newManager(t, 3)
	chatId := int64(1001)

	first := m.Start(chatId)
	require.NotNil(t, first)
	assert.Equal(t, "q1", first.Id)
	assert.True(t, m.IsActive(chatId))

	next, completed, err := m.Advance(chatId, "answer one", nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "q2", next.Id)
	assert.Nil(t, completed)

	next, completed, err = m.Advance(chatId, "answer two", nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "q3", next.Id)

	var finalized *entity.QuestionnaireResponse
	next, completed, err = m.Advance(chatId, "answer three", func(r *entity.QuestionnaireResponse) error {
		finalized = r
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.NotNil(t, completed)
	assert.Same(t, finalized, completed)

	// Bundle carries every answer in question order.
	require.Len(t, completed.Answers, 3)
	assert.Equal(t, []entity.Answer{
		{QuestionId: "q1", Text: "answer one"},
		{QuestionId: "q2", Text: "answer two"},
		{QuestionId: "q3", Text: "answer three"},
	}, completed.Answers)
	assert.Equal(t, chatId, completed.ChatId)
	assert.NotEqual(t, completed.Id.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, completed.CompletedAt.Before(completed.StartedAt))

	// Session is gone after completion.
	assert.False(t, m.IsActive(chatId))
}

func TestAdvanceWithoutSession(t *testing.T) {
	m := newManager(t, 2)

	_, _, err := m.Advance(7, "hello", nil)
	assert.ErrorIs(t, err, questionnaire.ErrSessionNotFound)
}

func TestCancel(t *testing.T) {
	m := newManager(t, 2)
	chatId := int64(5)

	assert.False(t, m.Cancel(chatId), "cancel without session is a no-op")

	m.Start(chatId)
	m.Advance(chatId, "partial", nil)

	assert.True(t, m.Cancel(chatId))
	assert.False(t, m.IsActive(chatId))

	// Answers were discarded: a new run starts from the first question.
	first := m.Start(chatId)
	assert.Equal(t, "q1", first.Id)
}

func TestStartOverwritesExistingSession(t *testing.T) {
	m := newManager(t, 3)
	chatId := int64(9)

	m.Start(chatId)
	m.Advance(chatId, "old answer", nil)

	first := m.Start(chatId)
	require.NotNil(t, first)
	assert.Equal(t, "q1", first.Id)

	// The restarted run must not carry the discarded answer.
	_, _, err := m.Advance(chatId, "fresh one", nil)
	require.NoError(t, err)
	_, _, err = m.Advance(chatId, "fresh two", nil)
	require.NoError(t, err)

	_, completed, err := m.Advance(chatId, "fresh three", nil)
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, "fresh one", completed.Answers[0].Text)
}

func TestFinalizeFailureRollsBack(t *testing.T) {
	m := newManager(t, 2)
	chatId := int64(77)

	m.Start(chatId)
	_, _, err := m.Advance(chatId, "one", nil)
	require.NoError(t, err)

	boom := errors.New("db down")
	_, completed, err := m.Advance(chatId, "two", func(*entity.QuestionnaireResponse) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, completed)

	// Session survives, positioned back at the last question: resending the
	// answer retries finalization.
	assert.True(t, m.IsActive(chatId))
	_, completed, err = m.Advance(chatId, "two again", nil)
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, []entity.Answer{
		{QuestionId: "q1", Text: "one"},
		{QuestionId: "q2", Text: "two again"},
	}, completed.Answers)
}

func TestConcurrentChatsDoNotInterleave(t *testing.T) {
	const chats = 20
	m := newManager(t, 5)

	var wg sync.WaitGroup
	for c := 0; c < chats; c++ {
		wg.Add(1)
		go func(chatId int64) {
			defer wg.Done()
			m.Start(chatId)
			for i := 0; i < 4; i++ {
				_, _, err := m.Advance(chatId, fmt.Sprintf("chat %d answer %d", chatId, i+1), nil)
				assert.NoError(t, err)
			}
			_, completed, err := m.Advance(chatId, fmt.Sprintf("chat %d answer 5", chatId), nil)
			assert.NoError(t, err)
			if assert.NotNil(t, completed) {
				assert.Equal(t, chatId, completed.ChatId)
				for i, ans := range completed.Answers {
					assert.Equal(t, fmt.Sprintf("chat %d answer %d", chatId, i+1), ans.Text)
				}
			}
		}(int64(c + 1))
	}
	wg.Wait()
}
