package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/data/store"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/rag"
	"github.com/ndadi/PersonaRAG/internal/rag/llm"
)

func newTestService(v *MockVectorDB, l *MockLLM, e *MockEmbedder, d *MockDownloader, history store.IngestionStore) rag.Service {
	return rag.NewService(rag.ServiceParams{
		VectorDB:       v,
		LLMProvider:    l,
		Embedder:       e,
		Downloader:     d,
		History:        history,
		PersonaName:    "Naeem",
		RedactUsername: "naeemdadi",
	})
}

func collect(t *testing.T, stream <-chan llm.Token) string {
	t.Helper()
	var b strings.Builder
	for token := range stream {
		if token.Err != nil {
			t.Fatalf("unexpected token error: %v", token.Err)
		}
		b.WriteString(token.Text)
	}
	return b.String()
}

func TestStreamQuery_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		messages       []commonModels.ChatMessage
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer string
		expectedKind   commonModels.ErrorKind
		checkPrompt    func(t *testing.T, prompt string)
	}{
		{
			name: "Success_Full_Flow",
			messages: []commonModels.ChatMessage{
				{Role: "user", Content: "older question"},
				{Role: "model", Content: "older answer"},
				{Role: "user", Content: "what projects has Naeem built?"},
			},
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {},
			expectedAnswer: "default answer",
			checkPrompt: func(t *testing.T, prompt string) {
				if !strings.Contains(prompt, `["default context"]`) {
					t.Errorf("prompt missing serialized context: %s", prompt)
				}
				if !strings.Contains(prompt, "User: what projects has Naeem built?") {
					t.Errorf("prompt should carry only the latest message: %s", prompt)
				}
				if strings.Contains(prompt, "older question") {
					t.Errorf("prior turns must not leak into the prompt: %s", prompt)
				}
			},
		},
		{
			name:     "Search_Failure_Degrades_To_Empty_Context",
			messages: []commonModels.ChatMessage{{Role: "user", Content: "hello"}},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, vec []float32, limit uint64) ([]string, error) {
					return nil, errors.New("db timeout")
				}
			},
			expectedAnswer: "default answer",
			checkPrompt: func(t *testing.T, prompt string) {
				if !strings.Contains(prompt, "Context:\n\n\nUser: hello") {
					t.Errorf("search failure should leave the context block empty: %s", prompt)
				}
			},
		},
		{
			name:           "Empty_Conversation_Still_Answers",
			messages:       nil,
			setupMocks:     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {},
			expectedAnswer: "default answer",
			checkPrompt: func(t *testing.T, prompt string) {
				if !strings.Contains(prompt, "User: \nAssistant:") {
					t.Errorf("empty conversation should produce a degenerate prompt: %s", prompt)
				}
			},
		},
		{
			name:     "Failure_Embedding",
			messages: []commonModels.ChatMessage{{Role: "user", Content: "hello"}},
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedKind: commonModels.ErrEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := newTestService(mVec, mLLM, mEmbed, &MockDownloader{}, nil)

			ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
			stream, err := s.StreamQuery(ctx, tt.messages)

			if tt.expectedKind != "" {
				if err == nil {
					t.Fatal("expected an error, got a stream")
				}
				pe, ok := commonModels.AsPipelineError(err)
				if !ok || pe.Kind != tt.expectedKind {
					t.Errorf("error kind got %v, want %v", err, tt.expectedKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("StreamQuery failed: %v", err)
			}
			if got := collect(t, stream); got != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", got, tt.expectedAnswer)
			}
			if tt.checkPrompt != nil {
				tt.checkPrompt(t, mLLM.LastPrompt)
			}
		})
	}
}

func TestStreamQuery_EmbedsOnlyLatestMessage(t *testing.T) {
	mEmbed := &MockEmbedder{}
	s := newTestService(&MockVectorDB{}, &MockLLM{}, mEmbed, &MockDownloader{}, nil)

	messages := []commonModels.ChatMessage{
		{Role: "user", Content: "first"},
		{Role: "user", Content: "second"},
	}
	stream, err := s.StreamQuery(context.Background(), messages)
	if err != nil {
		t.Fatalf("StreamQuery failed: %v", err)
	}
	collect(t, stream)

	if len(mEmbed.EmbeddedTexts) != 1 || mEmbed.EmbeddedTexts[0] != "second" {
		t.Errorf("expected exactly the latest message to be embedded, got %v", mEmbed.EmbeddedTexts)
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	content := []byte("Naeem has shipped several production services over the last five years. " +
		"He designed ingestion pipelines, search systems and streaming chat backends for small teams.")

	tests := []struct {
		name          string
		fileType      string
		setupMocks    func(e *MockEmbedder, v *MockVectorDB, d *MockDownloader)
		expectedKind  commonModels.ErrorKind
		expectInserts func(t *testing.T, inserted []commonModels.StoredRecord)
	}{
		{
			name:     "Ingestion_Success",
			fileType: commonModels.MediaTypeTxt,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDownloader) {
				d.OnDownload = func(ctx context.Context, fileURL string) ([]byte, error) {
					return content, nil
				}
			},
			expectInserts: func(t *testing.T, inserted []commonModels.StoredRecord) {
				if len(inserted) == 0 {
					t.Fatal("expected at least one stored record")
				}
				for _, r := range inserted {
					if len(r.Vector) != 768 {
						t.Errorf("record %s has %d dimensions, want 768", r.Id, len(r.Vector))
					}
					if r.Id == "" || r.Chunk == "" {
						t.Errorf("record is missing an id or chunk: %+v", r)
					}
				}
			},
		},
		{
			name:     "Unsupported_Type_Writes_Nothing",
			fileType: "image/png",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDownloader) {
				d.OnDownload = func(ctx context.Context, fileURL string) ([]byte, error) {
					return content, nil
				}
			},
			expectedKind: commonModels.ErrInput,
			expectInserts: func(t *testing.T, inserted []commonModels.StoredRecord) {
				if len(inserted) != 0 {
					t.Errorf("unsupported type must not write anything, got %d records", len(inserted))
				}
			},
		},
		{
			name:     "Download_Failure",
			fileType: commonModels.MediaTypeTxt,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDownloader) {
				d.OnDownload = func(ctx context.Context, fileURL string) ([]byte, error) {
					return nil, errors.New("connection refused")
				}
			},
			expectedKind: commonModels.ErrInput,
		},
		{
			name:     "Embedding_Failure_Aborts_Before_Writes",
			fileType: commonModels.MediaTypeTxt,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, d *MockDownloader) {
				d.OnDownload = func(ctx context.Context, fileURL string) ([]byte, error) {
					return content, nil
				}
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, errors.New("api limit")
				}
			},
			expectedKind: commonModels.ErrEmbedding,
			expectInserts: func(t *testing.T, inserted []commonModels.StoredRecord) {
				if len(inserted) != 0 {
					t.Errorf("embedding failure must abort before any write, got %d records", len(inserted))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mDown := &MockDownloader{}

			var inserted []commonModels.StoredRecord
			mVec.OnInsertChunk = func(ctx context.Context, record commonModels.StoredRecord) error {
				inserted = append(inserted, record)
				return nil
			}

			tt.setupMocks(mEmbed, mVec, mDown)

			history := store.InitInMemoryIngestionStore()
			s := newTestService(mVec, &MockLLM{}, mEmbed, mDown, history)

			result, err := s.IngestDocument(context.Background(), "http://localhost:3000/files/resume.txt", tt.fileType)

			if tt.expectedKind != "" {
				pe, ok := commonModels.AsPipelineError(err)
				if !ok || pe.Kind != tt.expectedKind {
					t.Errorf("error kind got %v, want %v", err, tt.expectedKind)
				}
			} else {
				if err != nil {
					t.Fatalf("IngestDocument failed: %v", err)
				}
				if result.Stored != result.ChunkCount || result.ChunkCount != len(inserted) {
					t.Errorf("result %+v does not match %d inserted records", result, len(inserted))
				}
				records, _ := history.ListIngestions(context.Background())
				if len(records) != 1 || records[0].ChunkCount != result.ChunkCount {
					t.Errorf("expected one history record matching the result, got %v", records)
				}
			}

			if tt.expectInserts != nil {
				tt.expectInserts(t, inserted)
			}
		})
	}
}

func TestIngestDocument_PartialStorageIsKept(t *testing.T) {
	content := []byte(strings.Repeat("Naeem worked on distributed ingestion systems in production. ", 40))

	inserts := 0
	mVec := &MockVectorDB{
		OnInsertChunk: func(ctx context.Context, record commonModels.StoredRecord) error {
			if inserts >= 1 {
				return errors.New("disk full")
			}
			inserts++
			return nil
		},
	}
	mDown := &MockDownloader{OnDownload: func(ctx context.Context, fileURL string) ([]byte, error) {
		return content, nil
	}}

	s := newTestService(mVec, &MockLLM{}, &MockEmbedder{}, mDown, nil)

	_, err := s.IngestDocument(context.Background(), "http://localhost:3000/files/big.txt", commonModels.MediaTypeTxt)
	pe, ok := commonModels.AsPipelineError(err)
	if !ok || pe.Kind != commonModels.ErrStorage {
		t.Fatalf("error kind got %v, want %v", err, commonModels.ErrStorage)
	}
	if inserts != 1 {
		t.Errorf("the record written before the failure should stay written, inserts = %d", inserts)
	}
}
