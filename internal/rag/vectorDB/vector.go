package vectorDB

import (
	"context"

	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// DataProcessor is the vector store boundary: idempotent collection setup, append
// of one stored record, nearest-neighbour search by query vector.
type DataProcessor interface {
	EnsureCollection(ctx context.Context) error
	InsertChunk(ctx context.Context, record commonModels.StoredRecord) error

	// Search returns the stored chunk texts closest to the query vector, best
	// match first, capped at limit.
	Search(ctx context.Context, vector []float32, limit uint64) ([]string, error)
}
