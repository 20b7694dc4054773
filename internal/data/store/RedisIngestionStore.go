package store

import (
	"context"
	"encoding/json"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/data/redisStore"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
)

const ingestionHistoryKey = "ingestions"

type RedisIngestionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisIngestionStore returns nil when redis is offline so the caller can fall
// back to the in-memory store.
func GetRedisIngestionStore(ctx context.Context, addr string) *RedisIngestionStore {
	inner := redisStore.GetRedisStore(ctx, addr, config.RedisIngestionStore)
	if inner == nil {
		return nil
	}
	return &RedisIngestionStore{
		store:  inner,
		logger: logger_i.NewLogger("IngestionStore"),
	}
}

func (s *RedisIngestionStore) SaveIngestion(ctx context.Context, record commonModels.IngestionRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "ingestion Id", record.Id)
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	err = s.store.ListPrepend(ctx, ingestionHistoryKey, data, config.IngestionHistoryLimit, config.RedisIngestionTTL)
	if err == nil {
		log.Debug("Saved ingestion record to Redis")
	}
	return err
}

func (s *RedisIngestionStore) ListIngestions(ctx context.Context) ([]commonModels.IngestionRecord, error) {
	entries, err := s.store.ListRange(ctx, ingestionHistoryKey, 0, config.IngestionHistoryLimit-1)
	if err != nil {
		return nil, err
	}

	records := make([]commonModels.IngestionRecord, 0, len(entries))
	for _, entry := range entries {
		var record commonModels.IngestionRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			s.logger.Error("Skipping corrupt ingestion record", "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// TestIngestionStore builds the store around a test-managed redis wrapper.
func TestIngestionStore(inner *redisStore.Store) *RedisIngestionStore {
	return &RedisIngestionStore{
		store:  inner,
		logger: logger_i.NewLogger("IngestionStore test"),
	}
}
