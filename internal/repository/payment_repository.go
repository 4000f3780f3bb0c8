package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/internship-service/internal/domain"
)

// PaymentRepository manages payment-proof persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	LatestByProfile(ctx context.Context, profileID string) (*domain.Payment, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Payment, error)
	SetStatus(ctx context.Context, id string, status domain.PaymentStatus, verifiedBy string) (*domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a Postgres-backed implementation.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, profile_id, amount, transaction_id, status, created_at, verified_at, verified_by`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (id, profile_id, amount, transaction_id, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.ProfileID,
		payment.Amount,
		payment.TransactionID,
		string(payment.Status),
	).Scan(&payment.CreatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) LatestByProfile(ctx context.Context, profileID string) (*domain.Payment, error) {
	const query = `
        SELECT ` + paymentColumns + `
        FROM payments WHERE profile_id=$1
        ORDER BY created_at DESC
        LIMIT 1`
	return scanPayment(r.pool.QueryRow(ctx, query, profileID))
}

func (r *paymentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Payment, error) {
	const query = `
        SELECT ` + paymentColumns + `
        FROM payments
        ORDER BY created_at DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) SetStatus(ctx context.Context, id string, status domain.PaymentStatus, verifiedBy string) (*domain.Payment, error) {
	const query = `
        UPDATE payments SET status=$1, verified_at=NOW(), verified_by=$2
        WHERE id=$3
        RETURNING ` + paymentColumns

	return scanPayment(r.pool.QueryRow(ctx, query, string(status), verifiedBy, id))
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment   domain.Payment
		rawStatus string
	)
	if err := row.Scan(
		&payment.ID,
		&payment.ProfileID,
		&payment.Amount,
		&payment.TransactionID,
		&rawStatus,
		&payment.CreatedAt,
		&payment.VerifiedAt,
		&payment.VerifiedBy,
	); err != nil {
		return nil, err
	}
	payment.Status = domain.PaymentStatus(rawStatus)
	return &payment, nil
}
