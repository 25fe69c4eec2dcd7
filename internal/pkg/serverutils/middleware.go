package serverutils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into a
// uniform JSON body. Unknown errors become 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var httpErr *HttpError
		if errors.As(err, &httpErr) {
			return ctx.Status(httpErr.Code).JSON(fiber.Map{"message": httpErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		log.Printf("[ERROR] Unhandled error: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
}

// WebhookSecretMiddleware rejects webhook calls missing the shared secret
// Telegram echoes back in X-Telegram-Bot-Api-Secret-Token. A blank configured
// secret disables the check (local development).
func WebhookSecretMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if secret == "" {
			return ctx.Next()
		}
		if ctx.Get("X-Telegram-Bot-Api-Secret-Token") != secret {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid webhook secret"})
		}
		return ctx.Next()
	}
}
