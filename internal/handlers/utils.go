package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ndadi/PersonaRAG/internal/api"
	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/data/store"
	"github.com/ndadi/PersonaRAG/internal/filestore"
	"github.com/ndadi/PersonaRAG/internal/rag"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

var (
	logRH      *logger_i.Logger
	ragService rag.Service
	fileStore  *filestore.Store
	history    store.IngestionStore
)

// Init wires the handler package to its services. Called once from main before the
// server starts; tests call it with mocks.
func Init(service rag.Service, files *filestore.Store, ingestionHistory store.IngestionStore) {
	logRH = logger_i.NewLogger("handlers")
	ragService = service
	fileStore = files
	history = ingestionHistory
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: message})
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func traceFrom(ctx context.Context) string {
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return trace
	}
	return ""
}
