package controller

import (
	"log"

	"pdq-assistant-be/internal/dto"
	"pdq-assistant-be/internal/pkg/dedup"
	"pdq-assistant-be/internal/pkg/serverutils"
	"pdq-assistant-be/internal/service"
	"pdq-assistant-be/pkg/telegram"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	HandleUpdate(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type webhookController struct {
	orchestrator  service.IOrchestratorService
	sender        telegram.Sender
	deduper       *dedup.UpdateDeduper
	webhookSecret string
	modelInfo     map[string]string
}

func NewWebhookController(
	orchestrator service.IOrchestratorService,
	sender telegram.Sender,
	deduper *dedup.UpdateDeduper,
	webhookSecret string,
	modelInfo map[string]string,
) IWebhookController {
	return &webhookController{
		orchestrator:  orchestrator,
		sender:        sender,
		deduper:       deduper,
		webhookSecret: webhookSecret,
		modelInfo:     modelInfo,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/webhook", serverutils.WebhookSecretMiddleware(c.webhookSecret), c.HandleUpdate)
	r.Get("/health", c.Health)
}

// HandleUpdate processes one Telegram update. It always answers 200 with
// {"ok": true} once the update is parsed: Telegram re-delivers on any other
// status, and re-delivery of a handled update is worse than a lost reply.
func (c *webhookController) HandleUpdate(ctx *fiber.Ctx) error {
	var update dto.TelegramUpdate
	if err := ctx.BodyParser(&update); err != nil {
		return serverutils.ErrBadRequest("Invalid update payload")
	}
	if err := serverutils.ValidateRequest(update); err != nil {
		return err
	}

	// Edited messages, channel posts etc. carry no message; acknowledge and
	// move on.
	if update.Message == nil || update.Message.Text == "" {
		return ctx.JSON(fiber.Map{"ok": true})
	}

	if c.deduper.Seen(ctx.Context(), update.UpdateId) {
		log.Printf("[WARN] Duplicate update %d dropped", update.UpdateId)
		return ctx.JSON(fiber.Map{"ok": true})
	}

	chatId := update.Message.Chat.Id
	reply, err := c.orchestrator.HandleMessage(ctx.Context(), chatId, update.Message.Text)
	if err != nil {
		// The orchestrator maps its own failures to user-facing fallbacks;
		// an error here is unexpected. Log it, keep the webhook green.
		log.Printf("[ERROR] Orchestrator failed for chat %d: %v", chatId, err)
		return ctx.JSON(fiber.Map{"ok": true})
	}

	if reply != "" {
		if err := c.sender.SendMessage(ctx.Context(), chatId, reply); err != nil {
			log.Printf("[ERROR] Failed to send reply to chat %d: %v", chatId, err)
		}
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", c.modelInfo))
}
