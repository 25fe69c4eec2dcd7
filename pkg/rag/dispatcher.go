package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"pdq-assistant-be/internal/constant"
	"pdq-assistant-be/internal/repository/contract"
	"pdq-assistant-be/pkg/embedding"
	"pdq-assistant-be/pkg/llm"
)

// ErrRetrieval wraps any collaborator failure (embedding, search, generation).
// The dispatcher performs no retries; callers decide what the user sees.
var ErrRetrieval = errors.New("retrieval failed")

// PassageSearcher is the corpus lookup the dispatcher depends on. The
// pgvector-backed repository satisfies it.
type PassageSearcher interface {
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredCorpusChunk, error)
}

// Dispatcher produces grounded answers for free-form questions, outside any
// questionnaire flow. Stateless: identical queries re-run the full
// embed/search/generate path every time.
type Dispatcher struct {
	embedder  embedding.EmbeddingProvider
	searcher  PassageSearcher
	generator llm.LLMProvider
	topK      int
	maxTokens int
	logger    *log.Logger
}

func NewDispatcher(
	embedder embedding.EmbeddingProvider,
	searcher PassageSearcher,
	generator llm.LLMProvider,
	maxTokens int,
	logger *log.Logger,
) *Dispatcher {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &Dispatcher{
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		topK:      3,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Answer embeds the query, pulls the top-k nearest passages and asks the LLM
// for a grounded answer. Passages are joined in the searcher's rank order.
func (d *Dispatcher) Answer(ctx context.Context, query string) (string, error) {
	embedResp, err := d.embedder.Generate(ctx, query, embedding.TaskTypeRetrievalQuery)
	if err != nil {
		d.logger.Printf("[ERROR] Query embedding failed: %v", err)
		return "", fmt.Errorf("%w: embed: %v", ErrRetrieval, err)
	}

	scored, err := d.searcher.SearchSimilar(ctx, embedResp.Embedding.Values, d.topK)
	if err != nil {
		d.logger.Printf("[ERROR] Corpus search failed: %v", err)
		return "", fmt.Errorf("%w: search: %v", ErrRetrieval, err)
	}

	contextBlock := buildContextBlock(scored)
	prompt := buildPrompt(contextBlock, query)

	answer, err := d.generator.Generate(ctx, prompt, llm.WithMaxTokens(d.maxTokens))
	if err != nil {
		d.logger.Printf("[ERROR] Answer generation failed: %v", err)
		return "", fmt.Errorf("%w: generate: %v", ErrRetrieval, err)
	}

	d.logger.Printf("[RAG] Answered from %d passages", len(scored))
	return answer, nil
}

func buildContextBlock(scored []*contract.ScoredCorpusChunk) string {
	parts := make([]string, 0, len(scored))
	for _, s := range scored {
		parts = append(parts, s.Chunk.Document)
	}
	return strings.Join(parts, "\n\n")
}

func buildPrompt(contextBlock, query string) string {
	var b strings.Builder
	b.WriteString(constant.RagPromptPreambleV1)
	b.WriteString("\n\nContext:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	return b.String()
}
