package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenpath/platform/internal/core/domain"
)

const profilesSchema = `
CREATE TABLE IF NOT EXISTS profiles (
  id               TEXT PRIMARY KEY,
  email            TEXT NOT NULL,
  role             TEXT NOT NULL DEFAULT 'student',
  age              INTEGER,
  class_name       TEXT,
  difficulty_level TEXT,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// ProfileRepository implements ports.ProfileStore on a PostgreSQL profiles table.
type ProfileRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureSchema creates the profiles table when missing.
func (r *ProfileRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, profilesSchema); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) FetchProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
    SELECT id, email, role, age, class_name, difficulty_level, created_at, updated_at
    FROM profiles
    WHERE id = $1
  `, id)

	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) CreateProfile(ctx context.Context, req domain.NewProfile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := req.Build(r.now())
	var difficulty *string
	if p.Difficulty != nil {
		d := string(*p.Difficulty)
		difficulty = &d
	}

	row := r.pool.QueryRow(ctx, `
    INSERT INTO profiles (id, email, role, age, class_name, difficulty_level, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id, email, role, age, class_name, difficulty_level, created_at, updated_at
  `, p.ID, p.Email, string(p.Role), p.Age, p.ClassName, difficulty, p.CreatedAt, p.UpdatedAt)

	created, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return created, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p          domain.Profile
		role       string
		difficulty *string
	)
	if err := row.Scan(&p.ID, &p.Email, &role, &p.Age, &p.ClassName, &difficulty, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)
	if difficulty != nil {
		tier := domain.Difficulty(*difficulty)
		p.Difficulty = &tier
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
