package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionProgress = "progress"

// ProgressRepository reads per-level progress rows. Completion and carbon
// footprint are written by external progress jobs; this service only
// records that a level was started.
type ProgressRepository struct {
	col *mongo.Collection
}

func NewProgressRepository(db *mongo.Database) *ProgressRepository {
	return &ProgressRepository{col: db.Collection(collectionProgress)}
}

type progressRow struct {
	UserID          string     `bson:"user_id"`
	LevelID         string     `bson:"level_id"`
	Completed       bool       `bson:"completed"`
	CarbonFootprint float64    `bson:"carbon_footprint"`
	StartedAt       *time.Time `bson:"started_at,omitempty"`
	CompletedAt     *time.Time `bson:"completed_at,omitempty"`
}

func (r *ProgressRepository) CompletedLevels(ctx context.Context, userID string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"user_id": userID, "completed": true},
		options.Find().SetProjection(bson.M{"level_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find progress: %w", err)
	}
	var rows []progressRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}

	done := make(map[string]bool, len(rows))
	for _, row := range rows {
		done[row.LevelID] = true
	}
	return done, nil
}

// CarbonFootprint sums the footprint recorded on every progress row.
func (r *ProgressRepository) CarbonFootprint(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$carbon_footprint"}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate footprint: %w", err)
	}
	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("decode footprint: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// StartLevel creates the progress row if missing and leaves existing ones alone.
func (r *ProgressRepository) StartLevel(ctx context.Context, userID, levelID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "level_id": levelID},
		bson.M{"$setOnInsert": bson.M{"completed": false, "carbon_footprint": 0.0, "started_at": now}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (r *ProgressRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "level_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
