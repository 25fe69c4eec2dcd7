package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"pdq-assistant-be/internal/dto"
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/pkg/mailer"
	"pdq-assistant-be/internal/repository/specification"
	"pdq-assistant-be/internal/repository/unitofwork"
	"pdq-assistant-be/internal/websocket"
	"pdq-assistant-be/pkg/events"
	pkgNats "pdq-assistant-be/pkg/nats"
	"pdq-assistant-be/pkg/questionnaire"
	"pdq-assistant-be/pkg/render"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type ICompletionService interface {
	Consume(ctx context.Context) error
}

// completionService runs the render -> deliver -> cleanup pipeline for
// completed questionnaires. It never talks back to the chat: the user was
// already told the questionnaire is done, so failures surface to operators
// only.
type completionService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	workers      int
	uowFactory   unitofwork.RepositoryFactory
	renderer     *render.PDFRenderer
	definition   *questionnaire.Definition
	emailService mailer.IEmailService

	// Operator-facing failure channels; both optional.
	eventPublisher *pkgNats.Publisher
	hub            *websocket.Hub
}

func NewCompletionService(
	pubSub *gochannel.GoChannel,
	topicName string,
	workers int,
	uowFactory unitofwork.RepositoryFactory,
	renderer *render.PDFRenderer,
	definition *questionnaire.Definition,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
	hub *websocket.Hub,
) ICompletionService {
	if workers <= 0 {
		workers = 2
	}
	return &completionService{
		pubSub:         pubSub,
		topicName:      topicName,
		workers:        workers,
		uowFactory:     uowFactory,
		renderer:       renderer,
		definition:     definition,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		hub:            hub,
	}
}

func (cs *completionService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	// Bounded worker pool; rendering and SMTP are slow, a single completed
	// questionnaire must not stall the next one.
	for i := 0; i < cs.workers; i++ {
		go func(worker int) {
			for msg := range messages {
				cs.processMessage(ctx, worker, msg)
			}
		}(i)
	}

	return nil
}

func (cs *completionService) processMessage(ctx context.Context, worker int, msg *message.Message) {
	// Always Ack. The queue carries only a pointer; the response row is the
	// durable state, and failed runs are retained as failed_artifacts for
	// operator recovery. Nacking would just loop a deterministic failure.
	defer msg.Ack()

	var payload dto.PublishCompletionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal completion task: %v", err)
		return
	}

	log.Printf("[INFO] Worker %d processing completion for response %s (chat %d)", worker, payload.ResponseId, payload.ChatId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	response, err := uow.QuestionnaireResponseRepository().FindOne(ctx, specification.ByID{ID: payload.ResponseId})
	if err != nil {
		cs.recordFailure(ctx, uow, payload.ResponseId, payload.ChatId, "", "load", err)
		return
	}
	if response == nil {
		// Already processed or manually removed. Nothing to do.
		log.Printf("[WARN] Response %s not found, skipping", payload.ResponseId)
		return
	}

	// 1. Render the PDF document.
	pdfPath, err := cs.renderer.Render(response, cs.definition)
	if err != nil {
		cs.recordFailure(ctx, uow, response.Id, response.ChatId, "", "render", err)
		return
	}

	// 2. Deliver by email. On failure the PDF stays on disk so operators can
	// resend it by hand.
	subject := fmt.Sprintf("Completed questionnaire - chat %d - %s", response.ChatId, response.CompletedAt.Format(time.RFC3339))
	if err := cs.emailService.SendQuestionnaire(subject, pdfPath); err != nil {
		cs.recordFailure(ctx, uow, response.Id, response.ChatId, pdfPath, "deliver", err)
		return
	}

	// 3. Cleanup. The response row and the document only exist to produce
	// this email; once sent, both go.
	if err := uow.QuestionnaireResponseRepository().Delete(ctx, response.Id); err != nil {
		log.Printf("[WARN] Failed to delete delivered response %s: %v", response.Id, err)
	}
	if err := os.Remove(pdfPath); err != nil {
		log.Printf("[WARN] Failed to remove delivered document %s: %v", pdfPath, err)
	}

	log.Printf("[INFO] Completion delivered for response %s (chat %d)", response.Id, response.ChatId)
	cs.notify(ctx, events.NewCompletionDelivered(response.Id.String(), response.ChatId))
}

// recordFailure retains everything the run produced so far and raises the
// operator alarms. The response row is deliberately NOT deleted.
func (cs *completionService) recordFailure(ctx context.Context, uow unitofwork.UnitOfWork, responseId uuid.UUID, chatId int64, documentPath, step string, cause error) {
	log.Printf("[ERROR] Completion %s failed for response %s (chat %d): %v", step, responseId, chatId, cause)

	artifact := &entity.CompletionArtifact{
		Id:           uuid.New(),
		ResponseId:   responseId,
		ChatId:       chatId,
		DocumentPath: documentPath,
		Status:       entity.ArtifactStatusFailed,
		Reason:       fmt.Sprintf("%s: %v", step, cause),
		CreatedAt:    time.Now(),
	}
	if err := uow.FailedArtifactRepository().Create(ctx, artifact); err != nil {
		// Last resort is the log line above; the event below still fires.
		log.Printf("[ERROR] Failed to record failed artifact for response %s: %v", responseId, err)
	}

	cs.notify(ctx, events.NewCompletionFailed(responseId.String(), chatId, step, cause.Error()))
}

func (cs *completionService) notify(ctx context.Context, event events.Event) {
	if cs.eventPublisher != nil {
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish %s event: %v", event.EventType(), err)
		}
	}
	if cs.hub != nil {
		cs.hub.BroadcastEvent(event)
	}
}
