// @title           Persona RAG API
// @version         1.0
// @description     Personal-knowledge chatbot: document ingestion into a vector store and retrieval-augmented streaming chat.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/data/store"
	"github.com/ndadi/PersonaRAG/internal/fetch"
	"github.com/ndadi/PersonaRAG/internal/filestore"
	"github.com/ndadi/PersonaRAG/internal/handlers"
	"github.com/ndadi/PersonaRAG/internal/rag"
	"github.com/ndadi/PersonaRAG/internal/rag/embedding/googleEmbedding"
	"github.com/ndadi/PersonaRAG/internal/rag/llm/gemini"
	"github.com/ndadi/PersonaRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/ndadi/PersonaRAG/internal/server"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		logger.Error("Configuration is incomplete", "error", err)
		return
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	var history store.IngestionStore
	if redisHistory := store.GetRedisIngestionStore(serviceContext, settings.RedisAddr); redisHistory != nil {
		history = redisHistory
	} else {
		logger.Error("Redis store is offline, keeping ingestion history in memory")
		history = store.InitInMemoryIngestionStore()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext, settings)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.EmbeddingModelName, settings.GoogleAPIKey)
	llmProvider := gemini.GetGeminiClient(serviceContext, settings.GoogleAPIKey, config.GeminiModelName)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	files, err := filestore.New(settings.FileStorageDir, settings.PublicBaseURL)
	if err != nil {
		logger.Error("Could not prepare file storage", "dir", settings.FileStorageDir, "error", err)
		return
	}

	ragService := rag.NewService(rag.ServiceParams{
		VectorDB:       vectorDB,
		LLMProvider:    llmProvider,
		Embedder:       embeddingService,
		Downloader:     fetch.NewDownloader(),
		History:        history,
		PersonaName:    settings.PersonaName,
		RedactUsername: settings.RedactUsername,
	})

	handlers.Init(ragService, files, history)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
