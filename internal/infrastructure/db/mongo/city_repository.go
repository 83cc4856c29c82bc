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

const (
	collectionItems   = "items"
	collectionCity    = "virtual_city"
	collectionWallets = "wallets"
)

// CityRepository implements ports.CityRepository over three collections:
// the item catalog, each user's owned items, and point wallets.
type CityRepository struct {
	items   *mongo.Collection
	city    *mongo.Collection
	wallets *mongo.Collection
}

func NewCityRepository(db *mongo.Database) *CityRepository {
	return &CityRepository{
		items:   db.Collection(collectionItems),
		city:    db.Collection(collectionCity),
		wallets: db.Collection(collectionWallets),
	}
}

type cityRow struct {
	UserID    string       `bson:"user_id"`
	ItemID    string       `bson:"item_id"`
	Biome     domain.Biome `bson:"biome,omitempty"`
	Placed    bool         `bson:"placed"`
	CreatedAt time.Time    `bson:"created_at"`
}

type wallet struct {
	UserID string `bson:"_id"`
	Points int    `bson:"points"`
}

func (r *CityRepository) Inventory(ctx context.Context, userID string) ([]domain.CityItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.items.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "cost", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	items := make([]domain.CityItem, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	cur, err = r.city.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find owned items: %w", err)
	}
	var rows []cityRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode owned items: %w", err)
	}

	owned := make(map[string]cityRow, len(rows))
	for _, row := range rows {
		owned[row.ItemID] = row
	}
	for i := range items {
		if row, ok := owned[items[i].ID]; ok {
			items[i].Owned = true
			items[i].Placed = row.Placed
		}
	}
	return items, nil
}

func (r *CityRepository) Balance(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w wallet
	if err := r.wallets.FindOne(ctx, bson.M{"_id": userID}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("find wallet: %w", err)
	}
	return w.Points, nil
}

// Purchase debits the wallet only if it still covers the cost, then records
// ownership. A duplicate ownership row refunds the debit.
func (r *CityRepository) Purchase(ctx context.Context, userID string, item domain.CityItem) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var w wallet
	err := r.wallets.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "points": bson.M{"$gte": item.Cost}},
		bson.M{"$inc": bson.M{"points": -item.Cost}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, domain.ErrInsufficientPoints
	}
	if err != nil {
		return 0, fmt.Errorf("debit wallet: %w", err)
	}

	_, err = r.city.InsertOne(ctx, cityRow{UserID: userID, ItemID: item.ID, CreatedAt: time.Now().UTC()})
	if err == nil {
		return w.Points, nil
	}

	if _, rerr := r.wallets.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$inc": bson.M{"points": item.Cost}}); rerr != nil {
		return 0, fmt.Errorf("refund after failed purchase: %w (insert: %v)", rerr, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return 0, domain.ErrAlreadyOwned
	}
	return 0, fmt.Errorf("insert owned item: %w", err)
}

func (r *CityRepository) Place(ctx context.Context, userID, itemID string, biome domain.Biome) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.city.UpdateOne(ctx,
		bson.M{"user_id": userID, "item_id": itemID},
		bson.M{"$set": bson.M{"placed": true, "biome": biome}},
	)
	if err != nil {
		return fmt.Errorf("place item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotOwned
	}
	return nil
}

// UpsertItem writes a catalog item by id. Used by seeding.
func (r *CityRepository) UpsertItem(ctx context.Context, item domain.CityItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.items.ReplaceOne(ctx, bson.M{"_id": item.ID}, item, options.Replace().SetUpsert(true))
	return err
}

// Credit adds points to a wallet, creating it when missing.
func (r *CityRepository) Credit(ctx context.Context, userID string, points int) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.wallets.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"points": points}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *CityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.city.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "item_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
