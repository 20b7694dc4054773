package store

import (
	"context"

	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// IngestionStore keeps the recent ingestion history: which documents were learned,
// how many chunks each produced and when. Purely observability; losing it never
// affects the knowledge base itself.
type IngestionStore interface {
	SaveIngestion(ctx context.Context, record commonModels.IngestionRecord) error
	ListIngestions(ctx context.Context) ([]commonModels.IngestionRecord, error)
}
