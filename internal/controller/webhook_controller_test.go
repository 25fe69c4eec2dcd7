package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"pdq-assistant-be/internal/pkg/dedup"
	"pdq-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	reply   string
	gotChat int64
	gotText string
	handled int
}

func (f *fakeOrchestrator) HandleMessage(_ context.Context, chatId int64, text string) (string, error) {
	f.handled++
	f.gotChat = chatId
	f.gotText = text
	return f.reply, nil
}

type fakeSender struct {
	sent map[int64][]string
}

func (f *fakeSender) SendMessage(_ context.Context, chatId int64, text string) error {
	if f.sent == nil {
		f.sent = make(map[int64][]string)
	}
	f.sent[chatId] = append(f.sent[chatId], text)
	return nil
}

func newTestApp(orch *fakeOrchestrator, sender *fakeSender, secret string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	c := NewWebhookController(orch, sender, dedup.NewUpdateDeduper(nil), secret, map[string]string{"llm_model": "llama3"})
	c.RegisterRoutes(app.Group("/api"))
	return app
}

func postUpdate(t *testing.T, app *fiber.App, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed
}

func TestHandleUpdateRepliesViaSender(t *testing.T) {
	orch := &fakeOrchestrator{reply: "hello back"}
	sender := &fakeSender{}
	app := newTestApp(orch, sender, "")

	status, body := postUpdate(t, app, `{"update_id": 100, "message": {"message_id": 1, "chat": {"id": 42}, "text": "hi"}}`, nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, int64(42), orch.gotChat)
	assert.Equal(t, "hi", orch.gotText)
	assert.Equal(t, []string{"hello back"}, sender.sent[42])
}

func TestHandleUpdateIgnoresMessagelessUpdates(t *testing.T) {
	orch := &fakeOrchestrator{reply: "never"}
	app := newTestApp(orch, &fakeSender{}, "")

	status, body := postUpdate(t, app, `{"update_id": 101}`, nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Zero(t, orch.handled)
}

func TestHandleUpdateRejectsMalformedBody(t *testing.T) {
	app := newTestApp(&fakeOrchestrator{}, &fakeSender{}, "")

	status, _ := postUpdate(t, app, `{not json`, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestWebhookSecretEnforced(t *testing.T) {
	orch := &fakeOrchestrator{reply: "secret ok"}
	app := newTestApp(orch, &fakeSender{}, "s3cret")

	body := `{"update_id": 102, "message": {"message_id": 2, "chat": {"id": 1}, "text": "hi"}}`

	status, _ := postUpdate(t, app, body, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Zero(t, orch.handled)

	status, _ = postUpdate(t, app, body, map[string]string{"X-Telegram-Bot-Api-Secret-Token": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = postUpdate(t, app, body, map[string]string{"X-Telegram-Bot-Api-Secret-Token": "s3cret"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, orch.handled)
}

func TestHealthReportsModelInfo(t *testing.T) {
	app := newTestApp(&fakeOrchestrator{}, &fakeSender{}, "")

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "llama3")
}
