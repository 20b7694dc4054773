package rag

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ndadi/PersonaRAG/internal/data/store"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/fetch"
	"github.com/ndadi/PersonaRAG/internal/metrics"
	"github.com/ndadi/PersonaRAG/internal/rag/embedding"
	"github.com/ndadi/PersonaRAG/internal/rag/ingest"
	"github.com/ndadi/PersonaRAG/internal/rag/llm"
	"github.com/ndadi/PersonaRAG/internal/rag/vectorDB"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

// Service is the public contract the handlers call. The private struct underneath
// holds the external clients; handlers never touch those directly.
type Service interface {
	IngestDocument(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error)
	StreamQuery(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error)
}

type ServiceParams struct {
	VectorDB       vectorDB.DataProcessor
	LLMProvider    llm.Provider
	Embedder       embedding.Embedder
	Downloader     fetch.Downloader
	History        store.IngestionStore
	PersonaName    string
	RedactUsername string
}

type service struct {
	vectorDB       vectorDB.DataProcessor
	llmProvider    llm.Provider
	embedder       embedding.Embedder
	downloader     fetch.Downloader
	history        store.IngestionStore
	personaName    string
	redactUsername string
	logger         *logger_i.Logger
}

// NewService constructor
func NewService(p ServiceParams) Service {
	return &service{
		vectorDB:       p.VectorDB,
		llmProvider:    p.LLMProvider,
		embedder:       p.Embedder,
		downloader:     p.Downloader,
		history:        p.History,
		personaName:    p.PersonaName,
		redactUsername: p.RedactUsername,
		logger:         logger_i.NewLogger("RAG Service"),
	}
}

// IngestDocument learns one uploaded document. Write-only with respect to the
// vector store.
func (s *service) IngestDocument(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	req := ingest.Request{
		FileURL:        fileURL,
		FileType:       fileType,
		RedactUsername: s.redactUsername,
	}
	result, err := ingest.ProcessDocument(ctx, req, s.downloader, s.embedder, s.vectorDB)
	if err != nil {
		return nil, err
	}

	metrics.AddIngestedChunks(result.ChunkCount)

	if s.history != nil {
		record := commonModels.IngestionRecord{
			Id:         uuid.New().String(),
			FileName:   fileURL,
			ChunkCount: result.ChunkCount,
			IngestedAt: time.Now(),
		}
		// History is observability, never worth failing a finished ingestion.
		if err := s.history.SaveIngestion(ctx, record); err != nil {
			s.logger.Error("Failed to record ingestion history", "error", err)
		}
	}

	return result, nil
}

// StreamQuery answers one chat turn: embed the latest message, retrieve context,
// stream the generation. Read-only with respect to the vector store.
func (s *service) StreamQuery(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error) {
	if s.embedder == nil || s.llmProvider == nil || s.vectorDB == nil {
		return nil, commonModels.NewPipelineError(commonModels.ErrConfig, "Chat backends are not configured", nil)
	}

	// Only the latest message drives retrieval; prior turns ride along in the
	// conversation but are not embedded. An empty conversation embeds the empty
	// string and produces a degenerate empty-context prompt.
	latestMessage := ""
	if len(messages) > 0 {
		latestMessage = messages[len(messages)-1].Content
	}

	queryVector, err := s.executeEmbeddingStep(ctx, latestMessage)
	if err != nil {
		return nil, commonModels.NewPipelineError(commonModels.ErrEmbedding, "Failed to embed query", err)
	}

	docContext := s.executeVectorSearchStep(ctx, queryVector)
	prompt := buildPrompt(s.personaName, docContext, latestMessage)

	return s.executeLLMStep(ctx, prompt), nil
}
