package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/internship-service/internal/domain"
)

// ProfileRepository defines persistence access for student profiles.
type ProfileRepository interface {
	// CreateIfAbsent inserts the profile unless one already exists for the
	// same identity. Returns the stored profile, making registration retries
	// idempotent.
	CreateIfAbsent(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Profile, error)
	ListStudents(ctx context.Context, limit int) ([]domain.Profile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `id, name, email, phone, school, level, role, active, created_at, updated_at`

func (r *profileRepository) CreateIfAbsent(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	const query = `
        INSERT INTO profiles (id, name, email, phone, school, level, role, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Phone,
		profile.School,
		string(profile.Level),
		string(profile.Role),
		profile.Active,
	); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, profile.ID)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1`
	return scanProfile(r.pool.QueryRow(ctx, query, id))
}

func (r *profileRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Profile, error) {
	const query = `
        UPDATE profiles SET active=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + profileColumns

	return scanProfile(r.pool.QueryRow(ctx, query, active, id))
}

func (r *profileRepository) ListStudents(ctx context.Context, limit int) ([]domain.Profile, error) {
	const query = `
        SELECT ` + profileColumns + `
        FROM profiles WHERE role=$1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, string(domain.RoleStudent), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

// scanProfile decodes a profile row, validating enum fields at the boundary so
// unknown level/role values are rejected instead of propagated.
func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile   domain.Profile
		rawLevel  string
		rawRole   string
		updatedAt *time.Time
	)
	if err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Phone,
		&profile.School,
		&rawLevel,
		&rawRole,
		&profile.Active,
		&profile.CreatedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	level, err := domain.ParseLevel(rawLevel)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	profile.Level = level
	profile.Role = role
	if updatedAt != nil {
		profile.UpdatedAt = *updatedAt
	}
	return &profile, nil
}
