package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndadi/PersonaRAG/internal/api"
	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/filestore"
)

// UploadHandler godoc
// @Summary      Upload a file
// @Description  Accepts raw file bytes via multipart/form-data, enforces the per-category size cap and returns the durable descriptor to pass to /ingest.
// @Tags         Upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "The PDF, TXT or DOCX file to upload"
// @Success      200   {object}  api.UploadResponse  "Stored file descriptor"
// @Failure      400   {object}  api.ErrorResponse   "Missing file or size cap exceeded"
// @Failure      500   {object}  api.ErrorResponse   "Storage failure"
// @Router       /upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	log := logRH.With("traceId", traceFrom(r.Context()))

	if fileStore == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "File storage is not configured")
		return
	}

	if err := r.ParseMultipartForm(config.MaxDownloadBytes); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("file")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	contentType := fileMetadata.Header.Get("Content-Type")
	limit := filestore.MaxUploadBytes(contentType)
	if fileMetadata.Size > limit {
		log.Warn("Upload over size cap", "size", fileMetadata.Size, "cap", limit, "contentType", contentType)
		WriteErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("File exceeds the %dMB limit for its type", limit>>20))
		return
	}

	saved, err := fileStore.Save(fileMetadata.Filename, fileReader)
	if err != nil {
		log.Error("Could not store uploaded file", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	writeJsonResponse(w, http.StatusOK, api.UploadResponse{URL: saved.URL, Name: saved.Name})
}

// FileHandler serves a previously uploaded file back to the ingestion pipeline.
func FileHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if fileStore == nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "File storage is not configured")
		return
	}
	if name == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "Missing file name")
		return
	}
	http.ServeFile(w, r, fileStore.Path(name))
}
