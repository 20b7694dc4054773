package rag_test

import (
	"context"

	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/rag/llm"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnEnsureCollection func(ctx context.Context) error
	OnInsertChunk      func(ctx context.Context, record commonModels.StoredRecord) error
	OnSearch           func(ctx context.Context, vectorVal []float32, limit uint64) ([]string, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx)
	}
	return nil
}

func (m *MockVectorDB) InsertChunk(ctx context.Context, record commonModels.StoredRecord) error {
	if m.OnInsertChunk != nil {
		return m.OnInsertChunk(ctx, record)
	}
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, v []float32, limit uint64) ([]string, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, limit)
	}
	return []string{"default context"}, nil
}

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
	EmbeddedTexts  []string
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.EmbeddedTexts = append(m.EmbeddedTexts, text)
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return make([]float32, 768), nil
}

type MockLLM struct {
	OnGenerateStream func(ctx context.Context, prompt string) <-chan llm.Token
	LastPrompt       string
}

func (m *MockLLM) GenerateStream(ctx context.Context, prompt string) <-chan llm.Token {
	m.LastPrompt = prompt
	if m.OnGenerateStream != nil {
		return m.OnGenerateStream(ctx, prompt)
	}
	out := make(chan llm.Token, 2)
	out <- llm.Token{Text: "default "}
	out <- llm.Token{Text: "answer"}
	close(out)
	return out
}

type MockDownloader struct {
	OnDownload func(ctx context.Context, fileURL string) ([]byte, error)
}

func (m *MockDownloader) Download(ctx context.Context, fileURL string) ([]byte, error) {
	if m.OnDownload != nil {
		return m.OnDownload(ctx, fileURL)
	}
	return []byte("default file content"), nil
}
