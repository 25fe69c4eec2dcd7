package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"pdq-assistant-be/internal/constant"
	"pdq-assistant-be/internal/dto"
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/repository/unitofwork"
	"pdq-assistant-be/pkg/questionnaire"
	"pdq-assistant-be/pkg/rag"
)

// IOrchestratorService routes every inbound chat message to exactly one of
// three paths: a command, an active questionnaire session, or the grounded
// question answering flow.
type IOrchestratorService interface {
	HandleMessage(ctx context.Context, chatId int64, text string) (string, error)
}

type orchestratorService struct {
	manager          *questionnaire.Manager
	dispatcher       *rag.Dispatcher
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewOrchestratorService(
	manager *questionnaire.Manager,
	dispatcher *rag.Dispatcher,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IOrchestratorService {
	return &orchestratorService{
		manager:          manager,
		dispatcher:       dispatcher,
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// HandleMessage returns the reply that should be sent back to the chat.
// Commands win over everything; an active session swallows all non-command
// text as the current answer; anything else goes to retrieval.
func (s *orchestratorService) HandleMessage(ctx context.Context, chatId int64, text string) (string, error) {
	trimmed := strings.TrimSpace(text)

	// 1. Commands are routed first, even mid-questionnaire.
	switch command(trimmed) {
	case constant.CommandStart:
		return constant.WelcomeMessage, nil

	case constant.CommandHelp:
		return constant.HelpMessage, nil

	case constant.CommandQuestionnaire:
		first := s.manager.Start(chatId)
		if first == nil {
			return constant.QuestionnaireEmptyMessage, nil
		}
		return formatQuestion(first), nil

	case constant.CommandCancel:
		if s.manager.Cancel(chatId) {
			return constant.QuestionnaireCancelMessage, nil
		}
		return constant.QuestionnaireNoActiveMessage, nil
	}

	// 2. Active session: the message is the answer to the current question.
	if s.manager.IsActive(chatId) {
		next, completed, err := s.manager.Advance(chatId, trimmed, s.finalize(ctx))
		if err != nil {
			log.Printf("[ERROR] Finalize failed for chat %d: %v", chatId, err)
			return constant.QuestionnairePersistFailed, nil
		}
		if completed != nil {
			return constant.QuestionnaireDoneMessage, nil
		}
		return formatQuestion(next), nil
	}

	// 3. Free-form question: grounded answering.
	answer, err := s.dispatcher.Answer(ctx, trimmed)
	if err != nil {
		log.Printf("[ERROR] Retrieval failed for chat %d: %v", chatId, err)
		return constant.RetrievalFallbackMessage, nil
	}
	return answer, nil
}

// finalize persists the completed response and enqueues the completion task.
// It runs inside the chat's session lock; an error here rolls the session
// back so the user can retry.
func (s *orchestratorService) finalize(ctx context.Context) questionnaire.FinalizeFunc {
	return func(response *entity.QuestionnaireResponse) error {
		uow := s.uowFactory.NewUnitOfWork(ctx)

		if err := uow.QuestionnaireResponseRepository().Create(ctx, response); err != nil {
			return fmt.Errorf("persist response: %w", err)
		}

		msgPayload := dto.PublishCompletionMessage{
			ResponseId: response.Id,
			ChatId:     response.ChatId,
		}
		msgJson, err := json.Marshal(msgPayload)
		if err != nil {
			return fmt.Errorf("marshal completion task: %w", err)
		}
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			return fmt.Errorf("enqueue completion task: %w", err)
		}

		log.Printf("[INFO] Questionnaire %s completed for chat %d", response.Id, response.ChatId)
		return nil
	}
}

// command extracts the leading slash-command, tolerating trailing arguments
// and the @botname suffix Telegram appends in group chats.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := text
	if idx := strings.IndexAny(cmd, " \n"); idx >= 0 {
		cmd = cmd[:idx]
	}
	if idx := strings.Index(cmd, "@"); idx >= 0 {
		cmd = cmd[:idx]
	}
	return cmd
}

// formatQuestion renders a question for the chat, listing numbered options
// for choice questions.
func formatQuestion(q *entity.Question) string {
	if q.Kind != entity.AnswerKindChoice || len(q.Options) == 0 {
		return q.Text
	}
	var b strings.Builder
	b.WriteString(q.Text)
	for i, opt := range q.Options {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, opt))
	}
	return b.String()
}
