package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ndadi/PersonaRAG/internal/api"
	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/data/store"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/filestore"
	"github.com/ndadi/PersonaRAG/internal/rag/ingest"
	"github.com/ndadi/PersonaRAG/internal/rag/llm"
)

type mockRagService struct {
	onIngest func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error)
	onStream func(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error)
}

func (m *mockRagService) IngestDocument(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
	return m.onIngest(ctx, fileURL, fileType)
}

func (m *mockRagService) StreamQuery(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error) {
	return m.onStream(ctx, messages)
}

func tokenStream(texts ...string) <-chan llm.Token {
	out := make(chan llm.Token, len(texts))
	for _, text := range texts {
		out <- llm.Token{Text: text}
	}
	close(out)
	return out
}

func TestIngestHandler_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		onIngest     func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error)
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Invalid_JSON",
			body:         "{not json",
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid JSON in request body",
		},
		{
			name:         "Missing_Fields",
			body:         `{"fileUrl": "http://localhost/x.txt"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: "Missing fileUrl or fileType",
		},
		{
			name: "Input_Failure_Maps_To_400",
			body: `{"fileUrl": "http://localhost/x.png", "fileType": "image/png"}`,
			onIngest: func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
				return nil, commonModels.NewPipelineError(commonModels.ErrInput, "Unsupported file type", nil)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Unsupported file type",
		},
		{
			name: "Storage_Failure_Maps_To_500",
			body: `{"fileUrl": "http://localhost/x.txt", "fileType": "text/plain"}`,
			onIngest: func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
				return nil, commonModels.NewPipelineError(commonModels.ErrStorage, "Failed to store embeddings in database", nil)
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: "Failed to store embeddings in database",
		},
		{
			name: "Success",
			body: `{"fileUrl": "http://localhost/x.txt", "fileType": "text/plain"}`,
			onIngest: func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
				return &ingest.Result{ChunkCount: 2, Chunks: []string{"one", "two"}, Stored: 2}, nil
			},
			expectedCode: http.StatusOK,
			expectedBody: "File processed and stored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(&mockRagService{onIngest: tt.onIngest}, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			IngestHandler(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("status got %d, want %d", rec.Code, tt.expectedCode)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedBody) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestIngestHandler_SuccessPayload(t *testing.T) {
	Init(&mockRagService{onIngest: func(ctx context.Context, fileURL string, fileType string) (*ingest.Result, error) {
		return &ingest.Result{ChunkCount: 3, Chunks: []string{"a", "b", "c"}, Stored: 3}, nil
	}}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/ingest",
		strings.NewReader(`{"fileUrl": "http://localhost/x.txt", "fileType": "text/plain"}`))
	rec := httptest.NewRecorder()

	IngestHandler(rec, req)

	var resp api.IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.ChunkCount != 3 || len(resp.Chunks) != 3 {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestChatHandler_StreamsPlainText(t *testing.T) {
	Init(&mockRagService{onStream: func(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error) {
		if len(messages) != 1 || messages[0].Content != "hi" {
			t.Errorf("unexpected messages: %+v", messages)
		}
		return tokenStream("Hello", ", ", "world"), nil
	}}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat",
		strings.NewReader(`{"messages": [{"role": "user", "content": "hi"}]}`))
	rec := httptest.NewRecorder()

	ChatHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type got %q, want text/plain", got)
	}
	if rec.Body.String() != "Hello, world" {
		t.Errorf("body got %q, want the concatenated tokens", rec.Body.String())
	}
}

func TestChatHandler_Failures(t *testing.T) {
	t.Run("Invalid_JSON", func(t *testing.T) {
		Init(&mockRagService{}, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{broken"))
		rec := httptest.NewRecorder()

		ChatHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status got %d, want 400", rec.Code)
		}
	})

	t.Run("Embedding_Failure_Before_Streaming", func(t *testing.T) {
		Init(&mockRagService{onStream: func(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error) {
			return nil, commonModels.NewPipelineError(commonModels.ErrEmbedding, "Failed to embed query", nil)
		}}, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages": []}`))
		rec := httptest.NewRecorder()

		ChatHandler(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status got %d, want 500", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Failed to embed query") {
			t.Errorf("body %q missing failure message", rec.Body.String())
		}
	})

	t.Run("Provider_Failure_Truncates_Stream", func(t *testing.T) {
		Init(&mockRagService{onStream: func(ctx context.Context, messages []commonModels.ChatMessage) (<-chan llm.Token, error) {
			out := make(chan llm.Token, 2)
			out <- llm.Token{Text: "partial"}
			out <- llm.Token{Err: io.ErrUnexpectedEOF}
			close(out)
			return out, nil
		}}, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages": []}`))
		rec := httptest.NewRecorder()

		ChatHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status is committed before streaming, got %d", rec.Code)
		}
		if rec.Body.String() != "partial" {
			t.Errorf("body got %q, want the tokens sent before the failure", rec.Body.String())
		}
	})
}

func TestUploadAndFileHandlers(t *testing.T) {
	files, err := filestore.New(t.TempDir(), "http://localhost:3000")
	if err != nil {
		t.Fatalf("filestore.New failed: %v", err)
	}
	Init(&mockRagService{}, files, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	io.WriteString(part, "resume content")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	UploadHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status got %d, body %s", rec.Code, rec.Body.String())
	}

	var resp api.UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("upload response is not valid JSON: %v", err)
	}
	if resp.Name != "resume.txt" || !strings.Contains(resp.URL, "/files/") {
		t.Fatalf("unexpected upload response: %+v", resp)
	}
	storedName := resp.URL[strings.LastIndex(resp.URL, "/")+1:]

	// Serve the stored file back through the chi route.
	router := chi.NewRouter()
	router.Get("/files/{name}", FileHandler)

	getReq := httptest.NewRequest(http.MethodGet, "/files/"+storedName, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("file status got %d", getRec.Code)
	}
	if getRec.Body.String() != "resume content" {
		t.Errorf("served file got %q, want the uploaded bytes", getRec.Body.String())
	}
}

func TestUploadHandler_EnforcesSizeCap(t *testing.T) {
	files, err := filestore.New(t.TempDir(), "http://localhost:3000")
	if err != nil {
		t.Fatalf("filestore.New failed: %v", err)
	}
	Init(&mockRagService{}, files, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="big.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	part.Write(bytes.Repeat([]byte("x"), int(config.MaxTextUploadBytes)+1))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	UploadHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status got %d, want 400 for an oversized text upload", rec.Code)
	}
}

func TestHistoryHandler(t *testing.T) {
	t.Run("No_Store_Configured", func(t *testing.T) {
		Init(&mockRagService{}, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/ingestions", nil)
		rec := httptest.NewRecorder()

		HistoryHandler(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status got %d, want 500", rec.Code)
		}
	})

	t.Run("Returns_Records", func(t *testing.T) {
		memory := store.InitInMemoryIngestionStore()
		memory.SaveIngestion(context.Background(), commonModels.IngestionRecord{Id: "rec-1", FileName: "a.pdf", ChunkCount: 4})
		Init(&mockRagService{}, nil, memory)

		req := httptest.NewRequest(http.MethodGet, "/ingestions", nil)
		rec := httptest.NewRecorder()

		HistoryHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status got %d, want 200", rec.Code)
		}

		var resp api.HistoryResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("history response is not valid JSON: %v", err)
		}
		if len(resp.Ingestions) != 1 || resp.Ingestions[0].Id != "rec-1" {
			t.Errorf("unexpected history payload: %+v", resp)
		}
	})
}
