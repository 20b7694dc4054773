package commonModels

import "time"

// Document is the transient representation of one uploaded file. It only lives for
// the duration of a single ingestion call.
type Document struct {
	Id         string    `json:"source_doc_id"`
	Name       string    `json:"doc_name"`
	MediaType  string    `json:"media_type"`
	IngestedAt time.Time `json:"ingested_at"`
}

// StoredRecord is what ends up in the vector store: one chunk of sanitized text, its
// embedding and the ingestion timestamp. Immutable after creation.
type StoredRecord struct {
	Id         string
	Chunk      string
	Vector     []float32
	IngestedAt time.Time
}

// ChatMessage is one turn of a conversation. The full conversation lives with the
// caller; the server never persists it.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IngestionRecord is the history entry kept after a successful ingestion.
type IngestionRecord struct {
	Id         string    `json:"id"`
	FileName   string    `json:"file_name"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Supported media types for ingestion.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeTxt  = "text/plain"
	MediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)
