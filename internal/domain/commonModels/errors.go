package commonModels

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a pipeline failure. Each kind maps onto exactly one
// user-visible HTTP status.
type ErrorKind string

const (
	ErrConfig         ErrorKind = "CONFIG"
	ErrInput          ErrorKind = "INPUT"
	ErrExtraction     ErrorKind = "EXTRACTION"
	ErrChunking       ErrorKind = "CHUNKING"
	ErrEmbeddingSetup ErrorKind = "EMBEDDING_SETUP"
	ErrEmbedding      ErrorKind = "EMBEDDING"
	ErrSearch         ErrorKind = "SEARCH"
	ErrStorage        ErrorKind = "STORAGE"
)

// PipelineError carries the failure kind plus a message safe to show the caller.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to the status the endpoints return: client-fault input
// problems are 400, everything else is a server-side 500.
func (e *PipelineError) HTTPStatus() int {
	if e.Kind == ErrInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func NewPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// AsPipelineError unwraps err into a PipelineError when possible.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
