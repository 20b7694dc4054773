package embedding

import "context"

// Embedder maps a text string to a fixed-dimension vector. Chunks are embedded one
// at a time, in input order.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}
