package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ndadi/PersonaRAG/internal/config"
	"github.com/ndadi/PersonaRAG/internal/domain/commonModels"
	"github.com/ndadi/PersonaRAG/internal/rag/vectorDB"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj           *qdrant.Client
	collectionName string
}

// GetQdrantClient builds the process-wide qdrant handle once and reuses it across
// requests. Returns nil when the store cannot be reached.
func GetQdrantClient(ctx context.Context, settings *config.Settings) vectorDB.DataProcessor {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(settings)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:           qdrantInstance,
		collectionName: settings.QdrantCollection,
	}
}

func newClient(settings *config.Settings) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     settings.QdrantHost,
		Port:     settings.QdrantPort,
		APIKey:   settings.QdrantAPIKey,
		UseTLS:   settings.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
}

// EnsureCollection creates the target collection when absent, checked by an
// existence lookup first. Dimension 768, cosine metric.
func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	if db.collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, db.collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info("Creating collection", "name", db.collectionName)
	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// InsertChunk appends one stored record. There is no update or delete path.
func (db *ClientHolder) InsertChunk(ctx context.Context, record commonModels.StoredRecord) error {
	if len(record.Vector) != int(dimension) {
		return fmt.Errorf("vector dimension mismatch: got %d, collection expects %d", len(record.Vector), dimension)
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(record.Id),
				Vectors: qdrant.NewVectors(record.Vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"chunk":       record.Chunk,
					"ingested_at": record.IngestedAt.Unix(),
				}),
			},
		},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, vectorFloat []float32, limit uint64) ([]string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if s, ok := status.FromError(err); ok && s.Code() == codes.NotFound {
			// No collection yet means nothing has been ingested. Not an error
			// worth failing a chat turn over.
			loggr.Warn("Search against missing collection", "collection", db.collectionName)
		} else {
			loggr.Error("Error querying Qdrant: ", "error:", err)
		}
		return nil, err
	}

	matches := make([]string, 0, len(result))
	for _, hit := range result {
		matches = append(matches, hit.Payload["chunk"].GetStringValue())
	}
	return matches, nil
}
