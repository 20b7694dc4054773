package handlers

import (
	"net/http"

	"github.com/ndadi/PersonaRAG/internal/api"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HistoryHandler godoc
// @Summary      List recent ingestions
// @Description  Returns the recent ingestion history: file names, chunk counts and timestamps.
// @Tags         Ingestion
// @Produce      json
// @Success      200  {object}  api.HistoryResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /ingestions [get]
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	if history == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "History store is not configured")
		return
	}

	records, err := history.ListIngestions(r.Context())
	if err != nil {
		logRH.Error("Could not list ingestion history", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Could not read ingestion history")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.HistoryResponse{Ingestions: records})
}
