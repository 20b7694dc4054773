package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ndadi/PersonaRAG/internal/api"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// IngestHandler godoc
// @Summary      Ingest an uploaded document
// @Description  Downloads the referenced file, extracts and sanitizes its text, chunks it, embeds every chunk and stores the result in the vector database.
// @Tags         Ingestion
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest   true  "File URL and declared media type"
// @Success      200      {object}  api.IngestResponse  "Document processed and stored"
// @Failure      400      {object}  api.ErrorResponse   "Missing fields, unsupported type or empty download"
// @Failure      500      {object}  api.ErrorResponse   "Configuration, parse, embedding or storage failure"
// @Router       /ingest [post]
func IngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceFrom(r.Context()))

	if ragService == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Ingestion backends are not configured")
		return
	}

	var requestData api.IngestRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the ingest request reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad ingest request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if requestData.FileURL == "" || requestData.FileType == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "Missing fileUrl or fileType")
		return
	}

	result, err := ragService.IngestDocument(r.Context(), requestData.FileURL, requestData.FileType)
	if err != nil {
		if pipelineErr, ok := commonModels.AsPipelineError(err); ok {
			log.Error("Ingestion failed", "kind", pipelineErr.Kind, "error", err)
			WriteErrorResponse(w, pipelineErr.HTTPStatus(), pipelineErr.Message)
			return
		}
		log.Error("Ingestion failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.IngestResponse{
		Message:    "File processed and stored",
		ChunkCount: result.ChunkCount,
		Chunks:     result.Chunks,
	})
}
