package store

import (
	"context"
	"sync"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
)

// InMemoryIngestionStore is the fallback when redis is offline. History survives
// only for the process lifetime.
type InMemoryIngestionStore struct {
	mu      sync.RWMutex
	records []commonModels.IngestionRecord
}

func InitInMemoryIngestionStore() *InMemoryIngestionStore {
	return &InMemoryIngestionStore{}
}

func (s *InMemoryIngestionStore) SaveIngestion(_ context.Context, record commonModels.IngestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]commonModels.IngestionRecord{record}, s.records...)
	if len(s.records) > config.IngestionHistoryLimit {
		s.records = s.records[:config.IngestionHistoryLimit]
	}
	return nil
}

func (s *InMemoryIngestionStore) ListIngestions(_ context.Context) ([]commonModels.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]commonModels.IngestionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
