package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 0 * time.Second //chat responses stream for as long as the model talks
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//chunking
	ChunkSize          = 512
	ChunkOverlap       = 100
	ChunkOverflowLimit = 600
	MinChunkLength     = 30

	//retrieval
	SearchLimit = 10

	//embeddings + llm
	EmbeddingOutputDimensionality int32 = 768
	EmbeddingModelName                  = "text-embedding-004"
	GeminiModelName                     = "gemini-1.5-flash"

	//vectorDB
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//ingest downloads
	MaxDownloadBytes  = 32 << 20
	PDFPageTimeout    = 10 * time.Second
	IngestcallTimeout = 120 * time.Second

	//upload transport size caps, per declared category
	MaxImageUploadBytes = 8 << 20
	MaxPdfUploadBytes   = 16 << 20
	MaxTextUploadBytes  = 2 << 20

	//http connection pooling for file downloads
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	RedisAddr = "127.0.0.1:6379"

	//redis has 16 DB we can use
	RedisIngestionStore = 0

	RedisIngestionTTL     = 24 * time.Hour
	IngestionHistoryLimit = 50
)
