package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/greenpath/platform/internal/core/domain"
)

const collectionProfiles = "profiles"

// ProfileRepository implements ports.ProfileStore using MongoDB.
type ProfileRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles), now: func() time.Time { return time.Now().UTC() }}
}

type mongoProfile struct {
	ID         string    `bson:"_id"`
	Email      string    `bson:"email"`
	Role       string    `bson:"role"`
	Age        *int      `bson:"age,omitempty"`
	ClassName  *string   `bson:"class_name,omitempty"`
	Difficulty *string   `bson:"difficulty_level,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func (r *ProfileRepository) FetchProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProfile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

// CreateProfile inserts the profile built from req. A duplicate id is a
// store failure, not a success.
func (r *ProfileRepository) CreateProfile(ctx context.Context, req domain.NewProfile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := req.Build(r.now())
	doc := fromProfile(p)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return &p, nil
}

func fromProfile(p domain.Profile) mongoProfile {
	doc := mongoProfile{
		ID:        p.ID,
		Email:     p.Email,
		Role:      string(p.Role),
		Age:       p.Age,
		ClassName: p.ClassName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Difficulty != nil {
		d := string(*p.Difficulty)
		doc.Difficulty = &d
	}
	return doc
}

// toDomain copies the stored fields as they are; the resolver validates them.
func (d mongoProfile) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:        d.ID,
		Email:     d.Email,
		Role:      domain.Role(d.Role),
		Age:       d.Age,
		ClassName: d.ClassName,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Difficulty != nil {
		tier := domain.Difficulty(*d.Difficulty)
		p.Difficulty = &tier
	}
	return p
}
