package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"pdq-assistant-be/internal/constant"
	"pdq-assistant-be/internal/dto"
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/contract"
	"pdq-assistant-be/internal/repository/memory"
	"pdq-assistant-be/internal/repository/specification"
	"pdq-assistant-be/internal/repository/unitofwork"
	"pdq-assistant-be/pkg/embedding"
	"pdq-assistant-be/pkg/llm"
	"pdq-assistant-be/pkg/questionnaire"
	"pdq-assistant-be/pkg/rag"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// fakeResponseRepo is shared between the test goroutine and pipeline
// workers, hence the mutex.
type fakeResponseRepo struct {
	mu        sync.Mutex
	createErr error
	responses map[uuid.UUID]*entity.QuestionnaireResponse
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[uuid.UUID]*entity.QuestionnaireResponse)}
}

func (r *fakeResponseRepo) Create(_ context.Context, response *entity.QuestionnaireResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.responses[response.Id] = response
	return nil
}

func (r *fakeResponseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.responses, id)
	return nil
}

func (r *fakeResponseRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.QuestionnaireResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return r.responses[byID.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeResponseRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.QuestionnaireResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.QuestionnaireResponse, 0, len(r.responses))
	for _, v := range r.responses {
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeResponseRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.responses)), nil
}

func (r *fakeResponseRepo) setCreateErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

func (r *fakeResponseRepo) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.responses[id]
	return ok
}

func (r *fakeResponseRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.responses)
}

type fakeArtifactRepo struct {
	mu        sync.Mutex
	artifacts []*entity.CompletionArtifact
}

func (r *fakeArtifactRepo) Create(_ context.Context, artifact *entity.CompletionArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, artifact)
	return nil
}

func (r *fakeArtifactRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeArtifactRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.CompletionArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.artifacts, nil
}

func (r *fakeArtifactRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.artifacts)), nil
}

func (r *fakeArtifactRepo) all() []*entity.CompletionArtifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.CompletionArtifact(nil), r.artifacts...)
}

type fakeUow struct {
	responseRepo *fakeResponseRepo
	artifactRepo *fakeArtifactRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) QuestionnaireResponseRepository() contract.QuestionnaireResponseRepository {
	return u.responseRepo
}

func (u *fakeUow) CorpusChunkRepository() contract.CorpusChunkRepository { return nil }

func (u *fakeUow) FailedArtifactRepository() contract.FailedArtifactRepository {
	return u.artifactRepo
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePublisher struct {
	err      error
	payloads [][]byte
}

func (p *fakePublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(context.Context, string, string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1}}}, nil
}

type stubSearcher struct{}

func (stubSearcher) SearchSimilar(context.Context, []float32, int) ([]*contract.ScoredCorpusChunk, error) {
	return []*contract.ScoredCorpusChunk{
		{Chunk: &entity.CorpusChunk{Document: "We formulate skin care products."}, Similarity: 0.9},
	}, nil
}

type stubGenerator struct {
	answer string
	err    error
}

func (g stubGenerator) Chat(context.Context, []llm.Message, ...llm.Option) (string, error) {
	return g.answer, g.err
}

func (g stubGenerator) Generate(context.Context, string, ...llm.Option) (string, error) {
	return g.answer, g.err
}

// --- harness ---

type orchestratorHarness struct {
	svc       IOrchestratorService
	manager   *questionnaire.Manager
	repo      *fakeResponseRepo
	publisher *fakePublisher
}

func newOrchestratorHarness(t *testing.T, gen llm.LLMProvider) *orchestratorHarness {
	t.Helper()

	def, err := questionnaire.NewDefinition([]entity.Question{
		{Id: "kind", Section: "Request", Text: "What kind of product?", Kind: entity.AnswerKindChoice, Options: []string{"Cream", "Serum"}},
		{Id: "volume", Section: "Request", Text: "How many units per year?", Kind: entity.AnswerKindNumber},
	})
	require.NoError(t, err)

	manager := questionnaire.NewManager(def, memory.NewSessionRepository())

	repo := newFakeResponseRepo()
	publisher := &fakePublisher{}
	dispatcher := rag.NewDispatcher(stubEmbedder{}, stubSearcher{}, gen, 64, log.New(io.Discard, "", 0))

	svc := NewOrchestratorService(
		manager,
		dispatcher,
		&fakeUowFactory{uow: &fakeUow{responseRepo: repo, artifactRepo: &fakeArtifactRepo{}}},
		publisher,
	)
	return &orchestratorHarness{svc: svc, manager: manager, repo: repo, publisher: publisher}
}

// --- tests ---

func TestHandleMessageCommands(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "irrelevant"})
	ctx := context.Background()

	reply, err := h.svc.HandleMessage(ctx, 1, "/start")
	require.NoError(t, err)
	assert.Equal(t, constant.WelcomeMessage, reply)

	reply, err = h.svc.HandleMessage(ctx, 1, "/help")
	require.NoError(t, err)
	assert.Equal(t, constant.HelpMessage, reply)

	reply, err = h.svc.HandleMessage(ctx, 1, "/cancel")
	require.NoError(t, err)
	assert.Equal(t, constant.QuestionnaireNoActiveMessage, reply)
}

func TestHandleMessageQuestionnaireFlow(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "irrelevant"})
	ctx := context.Background()
	chatId := int64(42)

	reply, err := h.svc.HandleMessage(ctx, chatId, "/questionnaire")
	require.NoError(t, err)
	assert.Contains(t, reply, "What kind of product?")
	assert.Contains(t, reply, "1. Cream")
	assert.Contains(t, reply, "2. Serum")

	reply, err = h.svc.HandleMessage(ctx, chatId, "Cream")
	require.NoError(t, err)
	assert.Equal(t, "How many units per year?", reply)

	reply, err = h.svc.HandleMessage(ctx, chatId, "50000")
	require.NoError(t, err)
	assert.Equal(t, constant.QuestionnaireDoneMessage, reply)

	// Response was persisted and the completion task enqueued.
	require.Equal(t, 1, h.repo.count())
	require.Len(t, h.publisher.payloads, 1)

	var task dto.PublishCompletionMessage
	require.NoError(t, json.Unmarshal(h.publisher.payloads[0], &task))
	assert.Equal(t, chatId, task.ChatId)
	assert.True(t, h.repo.has(task.ResponseId), "queued task references the persisted response")

	assert.False(t, h.manager.IsActive(chatId))
}

func TestHandleMessageCommandWinsMidQuestionnaire(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "irrelevant"})
	ctx := context.Background()
	chatId := int64(8)

	_, err := h.svc.HandleMessage(ctx, chatId, "/questionnaire")
	require.NoError(t, err)

	reply, err := h.svc.HandleMessage(ctx, chatId, "/cancel")
	require.NoError(t, err)
	assert.Equal(t, constant.QuestionnaireCancelMessage, reply)
	assert.False(t, h.manager.IsActive(chatId))
	assert.Zero(t, h.repo.count())
}

func TestHandleMessageCommandWithBotSuffix(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "irrelevant"})

	reply, err := h.svc.HandleMessage(context.Background(), 3, "/help@pdq_assistant_bot")
	require.NoError(t, err)
	assert.Equal(t, constant.HelpMessage, reply)
}

func TestHandleMessagePersistFailureKeepsSession(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "irrelevant"})
	ctx := context.Background()
	chatId := int64(13)

	h.repo.setCreateErr(errors.New("db down"))

	_, err := h.svc.HandleMessage(ctx, chatId, "/questionnaire")
	require.NoError(t, err)
	_, err = h.svc.HandleMessage(ctx, chatId, "Serum")
	require.NoError(t, err)

	reply, err := h.svc.HandleMessage(ctx, chatId, "1000")
	require.NoError(t, err)
	assert.Equal(t, constant.QuestionnairePersistFailed, reply)

	// Nothing enqueued, session still alive: resending the answer retries.
	assert.Empty(t, h.publisher.payloads)
	assert.True(t, h.manager.IsActive(chatId))

	h.repo.setCreateErr(nil)
	reply, err = h.svc.HandleMessage(ctx, chatId, "1000")
	require.NoError(t, err)
	assert.Equal(t, constant.QuestionnaireDoneMessage, reply)
	assert.Len(t, h.publisher.payloads, 1)
}

func TestHandleMessageRetrieval(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{answer: "We make skin care."})

	reply, err := h.svc.HandleMessage(context.Background(), 99, "What do you make?")
	require.NoError(t, err)
	assert.Equal(t, "We make skin care.", reply)
}

func TestHandleMessageRetrievalFallback(t *testing.T) {
	h := newOrchestratorHarness(t, stubGenerator{err: errors.New("llm down")})

	reply, err := h.svc.HandleMessage(context.Background(), 99, "What do you make?")
	require.NoError(t, err)
	assert.Equal(t, constant.RetrievalFallbackMessage, reply)
}
