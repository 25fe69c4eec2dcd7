package main

import (
	"context"
	"log"

	"pdq-assistant-be/internal/bootstrap"
	"pdq-assistant-be/internal/config"
	"pdq-assistant-be/internal/model"
	"pdq-assistant-be/internal/server"
	"pdq-assistant-be/internal/tracer"
	"pdq-assistant-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	if err := database.EnsureVectorExtension(gormDB); err != nil {
		log.Panicf("Unable to ensure pgvector extension: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.QuestionnaireResponse{},
		&model.CorpusChunk{},
		&model.FailedArtifact{},
	); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go container.WebSocketHub.Run()

	go func() {
		log.Println("Background: Starting Completion Service...")
		if err := container.CompletionService.Consume(context.Background()); err != nil {
			log.Printf("Background Completion Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
