package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greenpath/platform/internal/core/domain"
)

const collectionLevels = "levels"

type LevelRepository struct {
	col *mongo.Collection
}

func NewLevelRepository(db *mongo.Database) *LevelRepository {
	return &LevelRepository{col: db.Collection(collectionLevels)}
}

// ListLevels returns the curriculum ordered by position.
func (r *LevelRepository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find levels: %w", err)
	}
	levels := make([]domain.Level, 0)
	if err := cur.All(ctx, &levels); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	return levels, nil
}

func (r *LevelRepository) FindLevel(ctx context.Context, id string) (*domain.Level, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Level
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLevelNotFound
		}
		return nil, fmt.Errorf("find level: %w", err)
	}
	return &l, nil
}

// Upsert writes a level by id. Used by seeding.
func (r *LevelRepository) Upsert(ctx context.Context, l domain.Level) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	return err
}

func (r *LevelRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "position", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
