package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ndadi/PersonaRAG/internal/api"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// ChatHandler godoc
// @Summary      Chat with the assistant
// @Description  Embeds the latest user message, retrieves the most relevant stored chunks and streams the generated answer back as unframed plain text.
// @Tags         Chat
// @Accept       json
// @Produce      plain
// @Param        request  body      api.ChatRequest    true  "Ordered conversation messages"
// @Success      200      {string}  string             "Streamed answer tokens"
// @Failure      400      {object}  api.ErrorResponse  "Malformed request body"
// @Failure      500      {object}  api.ErrorResponse  "Configuration or embedding failure before streaming"
// @Router       /chat [post]
func ChatHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceFrom(r.Context()))

	if ragService == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Chat backends are not configured")
		return
	}

	var requestData api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the chat request reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		log.Warn("Bad chat request", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	stream, err := ragService.StreamQuery(r.Context(), requestData.Messages)
	if err != nil {
		if pipelineErr, ok := commonModels.AsPipelineError(err); ok {
			log.Error("Chat turn failed before streaming", "kind", pipelineErr.Kind, "error", err)
			WriteErrorResponse(w, pipelineErr.HTTPStatus(), pipelineErr.Message)
			return
		}
		log.Error("Chat turn failed before streaming", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	// From here on the status is committed; provider failures can only truncate
	// the stream.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	for token := range stream {
		if token.Err != nil {
			log.Error("Stream aborted mid-flight", "error", token.Err)
			return
		}
		if _, err := io.WriteString(w, token.Text); err != nil {
			// Caller went away; the request context cancellation stops the
			// producer.
			log.Warn("Client disconnected mid-stream", "error", err)
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
