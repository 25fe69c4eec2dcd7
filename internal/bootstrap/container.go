package bootstrap

import (
	"context"
	"log"
	"path/filepath"

	"pdq-assistant-be/internal/config"
	"pdq-assistant-be/internal/constant"
	"pdq-assistant-be/internal/controller"
	"pdq-assistant-be/internal/pkg/dedup"
	"pdq-assistant-be/internal/pkg/logger"
	"pdq-assistant-be/internal/pkg/mailer"
	"pdq-assistant-be/internal/repository/memory"
	"pdq-assistant-be/internal/repository/unitofwork"
	"pdq-assistant-be/internal/service"
	"pdq-assistant-be/internal/websocket"
	"pdq-assistant-be/pkg/embedding"
	"pdq-assistant-be/pkg/llm/factory"
	pkgNats "pdq-assistant-be/pkg/nats"
	"pdq-assistant-be/pkg/questionnaire"
	"pdq-assistant-be/pkg/rag"
	"pdq-assistant-be/pkg/render"
	"pdq-assistant-be/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	CompletionService service.ICompletionService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.SMTP.Recipient,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Questionnaire
	definition, err := questionnaire.LoadDefinition(cfg.Questionnaire.QuestionsPath)
	if err != nil {
		log.Fatalf("[FATAL] Failed to load questionnaire definition: %v", err)
	}
	log.Printf("[INFO] Questionnaire loaded with %d questions", definition.Len())

	sessionRepo := memory.NewSessionRepository()
	manager := questionnaire.NewManager(definition, sessionRepo)

	renderer := render.NewPDFRenderer(filepath.Join(cfg.Questionnaire.DataDir, "out"))

	// 5. Infrastructure
	// NATS (operator event bus, optional)
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (webhook dedup + alert fanout, optional)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/operator_alerts.log")
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 6. Services
	publisherService := service.NewPublisherService(constant.CompletionTopic, pubSub)
	completionService := service.NewCompletionService(
		pubSub,
		constant.CompletionTopic,
		cfg.App.CompletionWorkers,
		uowFactory,
		renderer,
		definition,
		emailService,
		natsPub,
		wsHub,
	)

	ragLogger := log.Default()
	dispatcher := rag.NewDispatcher(
		embeddingProvider,
		unitofwork.NewUnitOfWork(db).CorpusChunkRepository(),
		llmProvider,
		cfg.Ai.MaxAnswerTokens,
		ragLogger,
	)

	orchestratorService := service.NewOrchestratorService(
		manager,
		dispatcher,
		uowFactory,
		publisherService,
	)

	// 7. Transport
	sender := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken)
	deduper := dedup.NewUpdateDeduper(rdb)

	webhookController := controller.NewWebhookController(
		orchestratorService,
		sender,
		deduper,
		cfg.Telegram.WebhookSecret,
		map[string]string{
			"embedding_provider": cfg.Ai.EmbeddingProvider,
			"llm_provider":       cfg.Ai.LLMProvider,
			"llm_model":          cfg.Ai.LLMModel,
		},
	)

	return &Container{
		WebhookController: webhookController,
		CompletionService: completionService,
		WebSocketHub:      wsHub,
	}
}
