package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pdq-assistant-be/internal/dto"
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/pkg/questionnaire"
	"pdq-assistant-be/pkg/render"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu    sync.Mutex
	err   error
	sent  []string // pdf paths
	subjs []string
}

func (m *fakeMailer) SendQuestionnaire(subject, pdfPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, pdfPath)
	m.subjs = append(m.subjs, subject)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *fakeMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.subjs...)
}

type completionHarness struct {
	repo         *fakeResponseRepo
	artifactRepo *fakeArtifactRepo
	mailer       *fakeMailer
	outputDir    string
	definition   *questionnaire.Definition
	pubSub       *gochannel.GoChannel
	publisher    IPublisherService
}

func newCompletionHarness(t *testing.T) *completionHarness {
	t.Helper()

	def, err := questionnaire.NewDefinition([]entity.Question{
		{Id: "kind", Section: "Request", Text: "What kind of product?", Kind: entity.AnswerKindText},
		{Id: "volume", Section: "Request", Text: "How many units?", Kind: entity.AnswerKindNumber},
	})
	require.NoError(t, err)

	outputDir := t.TempDir()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	h := &completionHarness{
		repo:         newFakeResponseRepo(),
		artifactRepo: &fakeArtifactRepo{},
		mailer:       &fakeMailer{},
		outputDir:    outputDir,
		definition:   def,
		pubSub:       pubSub,
		publisher:    NewPublisherService("test.completions", pubSub),
	}

	svc := NewCompletionService(
		pubSub,
		"test.completions",
		1,
		&fakeUowFactory{uow: &fakeUow{responseRepo: h.repo, artifactRepo: h.artifactRepo}},
		render.NewPDFRenderer(outputDir),
		def,
		h.mailer,
		nil, // no NATS in tests
		nil, // no websocket hub in tests
	)
	require.NoError(t, svc.Consume(context.Background()))

	return h
}

func (h *completionHarness) storeResponse(t *testing.T, chatId int64) *entity.QuestionnaireResponse {
	t.Helper()
	response := &entity.QuestionnaireResponse{
		Id:          uuid.New(),
		ChatId:      chatId,
		StartedAt:   time.Now().Add(-time.Minute),
		CompletedAt: time.Now(),
		Answers: []entity.Answer{
			{QuestionId: "kind", Text: "Face cream"},
			{QuestionId: "volume", Text: "10000"},
		},
	}
	require.NoError(t, h.repo.Create(context.Background(), response))
	return response
}

func (h *completionHarness) enqueue(t *testing.T, responseId uuid.UUID, chatId int64) {
	t.Helper()
	payload, err := json.Marshal(dto.PublishCompletionMessage{ResponseId: responseId, ChatId: chatId})
	require.NoError(t, err)
	require.NoError(t, h.publisher.Publish(context.Background(), payload))
}

func TestCompletionDeliversAndCleansUp(t *testing.T) {
	h := newCompletionHarness(t)
	response := h.storeResponse(t, 42)

	h.enqueue(t, response.Id, response.ChatId)

	require.Eventually(t, func() bool {
		return h.mailer.sentCount() == 1
	}, 5*time.Second, 20*time.Millisecond, "questionnaire should be mailed")

	require.Eventually(t, func() bool {
		return !h.repo.has(response.Id)
	}, 5*time.Second, 20*time.Millisecond, "delivered response row should be deleted")

	// The generated PDF was removed after delivery.
	require.Eventually(t, func() bool {
		files, err := filepath.Glob(filepath.Join(h.outputDir, "*.pdf"))
		return err == nil && len(files) == 0
	}, 5*time.Second, 20*time.Millisecond, "delivered document should be removed")

	assert.Empty(t, h.artifactRepo.all())
	assert.Contains(t, h.mailer.subjects()[0], "chat 42")
}

func TestCompletionDeliveryFailureRetainsEverything(t *testing.T) {
	h := newCompletionHarness(t)
	h.mailer.setErr(errors.New("smtp down"))
	response := h.storeResponse(t, 7)

	h.enqueue(t, response.Id, response.ChatId)

	require.Eventually(t, func() bool {
		return len(h.artifactRepo.all()) == 1
	}, 5*time.Second, 20*time.Millisecond, "failure should be recorded")

	artifact := h.artifactRepo.all()[0]
	assert.Equal(t, response.Id, artifact.ResponseId)
	assert.Equal(t, response.ChatId, artifact.ChatId)
	assert.Equal(t, entity.ArtifactStatusFailed, artifact.Status)
	assert.Contains(t, artifact.Reason, "deliver")

	// Response row and document survive for operator recovery.
	assert.True(t, h.repo.has(response.Id))
	require.NotEmpty(t, artifact.DocumentPath)
	_, err := os.Stat(artifact.DocumentPath)
	assert.NoError(t, err, "failed delivery keeps the rendered PDF on disk")
}

func TestCompletionMissingResponseIsSkipped(t *testing.T) {
	h := newCompletionHarness(t)

	h.enqueue(t, uuid.New(), 99)
	// A second, valid task must still go through after the skipped one.
	response := h.storeResponse(t, 100)
	h.enqueue(t, response.Id, response.ChatId)

	require.Eventually(t, func() bool {
		return h.mailer.sentCount() == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Empty(t, h.artifactRepo.all(), "missing response is not a failure")
}

func TestCompletionMalformedTaskIsDropped(t *testing.T) {
	h := newCompletionHarness(t)

	require.NoError(t, h.publisher.Publish(context.Background(), []byte("{not json")))
	response := h.storeResponse(t, 5)
	h.enqueue(t, response.Id, response.ChatId)

	require.Eventually(t, func() bool {
		return h.mailer.sentCount() == 1
	}, 5*time.Second, 20*time.Millisecond, "pipeline keeps running after a malformed task")
}
