package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

const ingestionCollection = "ingestion_runs"

// IngestionRunRepository implements ports.IngestionAuditRepository.
type IngestionRunRepository struct {
	coll *mongo.Collection
}

func NewIngestionRunRepository(db *mongo.Database) *IngestionRunRepository {
	return &IngestionRunRepository{coll: db.Collection(ingestionCollection)}
}

type ingestionRunDoc struct {
	Page       int       `bson:"page"`
	Requested  int       `bson:"requested"`
	Added      int       `bson:"added"`
	WithImage  int       `bson:"with_image"`
	StartedAt  time.Time `bson:"started_at"`
	DurationMs int64     `bson:"duration_ms"`
	Error      string    `bson:"error,omitempty"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// EnsureIndexes creates the started_at index used to browse recent runs.
func (r *IngestionRunRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "started_at", Value: -1}},
		Options: options.Index().SetName("started_at_desc"),
	})
	if err != nil {
		return fmt.Errorf("create ingestion index: %w", err)
	}
	return nil
}

// Record persists a run to the ingestion_runs audit collection.
func (r *IngestionRunRepository) Record(ctx context.Context, run *domain.IngestionRun) error {
	doc := ingestionRunDoc{
		Page:       run.Page,
		Requested:  run.Requested,
		Added:      run.Added,
		WithImage:  run.WithImage,
		StartedAt:  run.StartedAt.UTC(),
		DurationMs: run.Duration.Milliseconds(),
		Error:      run.Error,
		RecordedAt: time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert ingestion run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (r *IngestionRunRepository) Recent(ctx context.Context, limit int64) ([]domain.IngestionRun, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find ingestion runs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ingestionRunDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode ingestion runs: %w", err)
	}

	out := make([]domain.IngestionRun, len(docs))
	for i, d := range docs {
		out[i] = domain.IngestionRun{
			Page:      d.Page,
			Requested: d.Requested,
			Added:     d.Added,
			WithImage: d.WithImage,
			StartedAt: d.StartedAt,
			Duration:  time.Duration(d.DurationMs) * time.Millisecond,
			Error:     d.Error,
		}
	}
	return out, nil
}
