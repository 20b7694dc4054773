package api

import "github.com/ndadi/PersonaRAG/internal/domain/commonModels"

// requests---------------------

type IngestRequest struct {
	FileURL  string `json:"fileUrl" validate:"required" example:"http://localhost:3000/files/resume.pdf"`
	FileType string `json:"fileType" validate:"required" example:"application/pdf"`
}

type ChatRequest struct {
	Messages []commonModels.ChatMessage `json:"messages"`
}

// responses--------------------

type IngestResponse struct {
	Message    string   `json:"message" example:"File processed and stored"`
	ChunkCount int      `json:"chunkCount" example:"12"`
	Chunks     []string `json:"chunks"`
}

type UploadResponse struct {
	URL  string `json:"url" example:"http://localhost:3000/files/1712-resume.pdf"`
	Name string `json:"name" example:"resume.pdf"`
}

type HistoryResponse struct {
	Ingestions []commonModels.IngestionRecord `json:"ingestions"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Unsupported file type"`
}
