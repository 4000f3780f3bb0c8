package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/internship-service/internal/domain"
)

// Redemption failure modes surfaced to the activation service.
var (
	ErrCodeUsed          = errors.New("activation code already used")
	ErrCodeOwnerMismatch = errors.New("activation code belongs to another account")
)

// ActivationCodeRepository manages activation code persistence.
type ActivationCodeRepository interface {
	Create(ctx context.Context, code *domain.ActivationCode) error
	GetByCode(ctx context.Context, code string) (*domain.ActivationCode, error)
	// Redeem marks the code used and activates the owning profile in a single
	// transaction. There is no reachable state where the code is consumed but
	// the profile stays inactive.
	Redeem(ctx context.Context, code, profileID string) (*domain.Profile, error)
}

type activationCodeRepository struct {
	pool *pgxpool.Pool
}

// NewActivationCodeRepository returns a Postgres-backed implementation.
func NewActivationCodeRepository(pool *pgxpool.Pool) ActivationCodeRepository {
	return &activationCodeRepository{pool: pool}
}

func (r *activationCodeRepository) Create(ctx context.Context, code *domain.ActivationCode) error {
	const query = `
        INSERT INTO activation_codes (code, profile_id, used, created_by)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		code.Code,
		code.ProfileID,
		code.Used,
		code.CreatedBy,
	).Scan(&code.CreatedAt)
}

func (r *activationCodeRepository) GetByCode(ctx context.Context, codeStr string) (*domain.ActivationCode, error) {
	const query = `
        SELECT code, profile_id, used, created_at, created_by, used_at
        FROM activation_codes WHERE code=$1`

	var code domain.ActivationCode
	if err := r.pool.QueryRow(ctx, query, codeStr).Scan(
		&code.Code,
		&code.ProfileID,
		&code.Used,
		&code.CreatedAt,
		&code.CreatedBy,
		&code.UsedAt,
	); err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *activationCodeRepository) Redeem(ctx context.Context, codeStr, profileID string) (*domain.Profile, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var (
		ownerID string
		used    bool
	)
	if err := tx.QueryRow(ctx,
		`SELECT profile_id, used FROM activation_codes WHERE code=$1 FOR UPDATE`,
		codeStr,
	).Scan(&ownerID, &used); err != nil {
		return nil, err
	}
	if ownerID != profileID {
		return nil, ErrCodeOwnerMismatch
	}
	if used {
		return nil, ErrCodeUsed
	}

	if _, err := tx.Exec(ctx,
		`UPDATE activation_codes SET used=TRUE, used_at=NOW() WHERE code=$1`,
		codeStr,
	); err != nil {
		return nil, err
	}

	profile, err := scanProfile(tx.QueryRow(ctx,
		`UPDATE profiles SET active=TRUE, updated_at=NOW() WHERE id=$1 RETURNING `+profileColumns,
		profileID,
	))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return profile, nil
}
