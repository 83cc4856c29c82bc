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

const collectionIdentities = "auth_identities"

type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(collectionIdentities)}
}

type mongoIdentity struct {
	ID           string                `bson:"_id"`
	Email        string                `bson:"email"`
	PasswordHash string                `bson:"password_hash,omitempty"`
	Provider     string                `bson:"provider"`
	Subject      string                `bson:"subject,omitempty"`
	Metadata     domain.SignUpMetadata `bson:"metadata"`
	CreatedAt    int64                 `bson:"created_at"`
	UpdatedAt    int64                 `bson:"updated_at"`
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoIdentity{
		ID:           identity.ID,
		Email:        identity.Email,
		PasswordHash: identity.PasswordHash,
		Provider:     identity.Provider,
		Subject:      identity.Subject,
		Metadata:     identity.Metadata,
		CreatedAt:    identity.CreatedAt.Unix(),
		UpdatedAt:    identity.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return toIdentity(doc), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindBySubject(ctx context.Context, provider, subject string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"provider": provider, "subject": subject})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return toIdentity(doc), nil
}

// EnsureIndexes makes email unique and federated subjects unique per provider.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "provider", Value: 1}, {Key: "subject", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"subject": bson.M{"$exists": true}}),
		},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toIdentity(doc mongoIdentity) *domain.Identity {
	return &domain.Identity{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Provider:     doc.Provider,
		Subject:      doc.Subject,
		Metadata:     doc.Metadata,
		CreatedAt:    unixToTime(doc.CreatedAt),
		UpdatedAt:    unixToTime(doc.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
