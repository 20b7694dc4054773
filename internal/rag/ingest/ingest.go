// Package ingest owns the end-to-end contract for "a document was learned":
// download, extract, sanitize, chunk, embed and store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/fetch"
	"github.com/ndadi/PersonaRAG/internal/rag/chunk"
	"github.com/ndadi/PersonaRAG/internal/rag/embedding"
	"github.com/ndadi/PersonaRAG/internal/rag/sanitize"
	"github.com/ndadi/PersonaRAG/internal/rag/vectorDB"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// Request identifies the document to learn. The URL comes from the upload
// transport and is trusted.
type Request struct {
	FileURL        string
	FileType       string
	RedactUsername string
}

// Result reports what was learned, chunk texts included for observability.
type Result struct {
	ChunkCount int
	Chunks     []string
	Stored     int
}

// ProcessDocument runs the whole ingestion pipeline for one document. Every step is
// a failure boundary mapping to a distinct PipelineError kind. Storage is
// best-effort: records written before a mid-loop failure stay written.
func ProcessDocument(ctx context.Context, req Request, downloader fetch.Downloader, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (*Result, error) {
	log := logger.With("fileURL", req.FileURL, "fileType", req.FileType)

	if e == nil || vectorDatabase == nil || downloader == nil {
		return nil, commonModels.NewPipelineError(commonModels.ErrConfig, "Ingestion backends are not configured", nil)
	}

	payload, err := downloader.Download(ctx, req.FileURL)
	if err != nil {
		log.Error("Error downloading document", "error", err)
		return nil, commonModels.NewPipelineError(commonModels.ErrInput, "Failed to download file", err)
	}
	if len(payload) == 0 {
		return nil, commonModels.NewPipelineError(commonModels.ErrInput, "Downloaded file is empty", nil)
	}

	text, err := ExtractText(payload, req.FileType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return nil, err
	}

	text = sanitize.Clean(text)
	text = sanitize.RemovePersonalInfo(text, req.RedactUsername)

	chunks := chunk.Split(text)
	log.Debug("Processing document", "number of chunks", len(chunks))

	if err := vectorDatabase.EnsureCollection(ctx); err != nil {
		log.Error("Error preparing collection", "error", err)
		return nil, commonModels.NewPipelineError(commonModels.ErrEmbeddingSetup, "Failed to create embeddings", err)
	}

	// One vector per chunk, in input order. Any embedding failure aborts the whole
	// ingestion before anything is written.
	vectors := make([][]float32, 0, len(chunks))
	for i, c := range chunks {
		vector, err := e.GetEmbedding(ctx, c)
		if err != nil {
			log.Error("Error embedding chunk", "chunk", i, "error", err)
			return nil, commonModels.NewPipelineError(commonModels.ErrEmbedding, "Failed to create embeddings", err)
		}
		vectors = append(vectors, vector)
	}

	ingestedAt := time.Now()
	stored := 0
	for i := range chunks {
		record := commonModels.StoredRecord{
			Id:         uuid.New().String(),
			Chunk:      chunks[i],
			Vector:     vectors[i],
			IngestedAt: ingestedAt,
		}
		if err := vectorDatabase.InsertChunk(ctx, record); err != nil {
			log.Error("Error storing chunk", "chunk", i, "stored so far", stored, "error", err)
			return nil, commonModels.NewPipelineError(commonModels.ErrStorage,
				fmt.Sprintf("Failed to store embeddings in database (%d of %d chunks stored)", stored, len(chunks)), err)
		}
		stored++
	}

	return &Result{ChunkCount: len(chunks), Chunks: chunks, Stored: stored}, nil
}
