package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/metrics"
	"github.com/ndadi/PersonaRAG/internal/rag/llm"
)

func (s *service) executeEmbeddingStep(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, text)
}

// executeVectorSearchStep degrades gracefully: a failed lookup is logged and the
// turn continues with an empty context block instead of surfacing an error.
func (s *service) executeVectorSearchStep(ctx context.Context, queryVector []float32) string {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, err := s.vectorDB.Search(ctx, queryVector, config.SearchLimit)
	if err != nil {
		log.Error("Vector search failed, continuing with empty context", "error", err)
		return ""
	}

	serialized, err := json.Marshal(matches)
	if err != nil {
		log.Error("Could not serialize retrieved context", "error", err)
		return ""
	}
	return string(serialized)
}

func (s *service) executeLLMStep(ctx context.Context, prompt string) <-chan llm.Token {
	metrics.IncrementActiveStreams()

	out := make(chan llm.Token)
	go func() {
		defer metrics.DecrementActiveStreams()
		defer close(out)
		for token := range s.llmProvider.GenerateStream(ctx, prompt) {
			select {
			case out <- token:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func buildPrompt(personaName string, docContext string, latestMessage string) string {
	return fmt.Sprintf("You are a helpful personal AI assistant with detailed knowledge of %s. "+
		"If user asks anything other than information about %s, simply and politely decline. "+
		"Anything else other than about %s should not be answered. "+
		"Please add bullet points wherever necessary and format answer wherever applicable. "+
		"Use the following context to answer the user's question.\n\nContext:\n%s\n\nUser: %s\nAssistant:",
		personaName, personaName, personaName, docContext, latestMessage)
}
