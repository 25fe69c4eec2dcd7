package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"pdq-assistant-be/internal/config"
	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/internal/model"
	"pdq-assistant-be/internal/repository/unitofwork"
	"pdq-assistant-be/pkg/database"
	"pdq-assistant-be/pkg/embedding"
	"pdq-assistant-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200
)

// buildindex rebuilds the retrieval corpus from the markdown files in the
// data directory. Re-running it for a source replaces that source's chunks,
// so the command is safe to repeat after editing a document.
func main() {
	corpusDir := flag.String("dir", "", "directory with corpus *.md files (defaults to DATA_DIR)")
	flag.Parse()

	cfg := config.Load()

	dir := *corpusDir
	if dir == "" {
		dir = cfg.Questionnaire.DataDir
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}
	if err := database.EnsureVectorExtension(gormDB); err != nil {
		log.Panicf("Unable to ensure pgvector extension: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.CorpusChunk{}); err != nil {
		log.Panicf("Unable to migrate schema: %v", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		provider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		log.Panicf("Unable to list corpus files: %v", err)
	}
	if len(files) == 0 {
		log.Printf("[WARN] No *.md files found in %s, nothing to index", dir)
		return
	}

	ctx := context.Background()
	uow := unitofwork.NewUnitOfWork(gormDB)
	repo := uow.CorpusChunkRepository()

	totalChunks := 0
	for _, file := range files {
		source := filepath.Base(file)
		log.Printf("[INFO] Indexing %s", source)

		raw, err := os.ReadFile(file)
		if err != nil {
			log.Printf("[ERROR] Failed to read %s: %v", file, err)
			continue
		}

		chunks := utils.SplitParagraphs(string(raw), chunkSize, chunkOverlap)
		log.Printf("[INFO] %s split into %d chunks", source, len(chunks))

		entities := make([]*entity.CorpusChunk, 0, len(chunks))
		for i, chunk := range chunks {
			res, err := provider.Generate(ctx, chunk, embedding.TaskTypeRetrievalDocument)
			if err != nil {
				log.Panicf("Failed to embed chunk %d of %s: %v", i, source, err)
			}
			entities = append(entities, &entity.CorpusChunk{
				Id:         uuid.New(),
				Document:   chunk,
				Source:     source,
				ChunkIndex: i,
				Embedding:  res.Embedding.Values,
				CreatedAt:  time.Now(),
			})
		}

		// Replace the source atomically enough for an offline tool: delete
		// then bulk insert.
		if err := repo.DeleteBySource(ctx, source); err != nil {
			log.Panicf("Failed to clear old chunks for %s: %v", source, err)
		}
		if err := repo.CreateBulk(ctx, entities); err != nil {
			log.Panicf("Failed to store chunks for %s: %v", source, err)
		}

		totalChunks += len(entities)
	}

	log.Printf("[INFO] Index complete: %d files, %d chunks", len(files), totalChunks)
}
