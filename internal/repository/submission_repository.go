package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/internship-service/internal/domain"
)

// SubmissionRepository manages task submission persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	ListByTask(ctx context.Context, taskID string) ([]domain.Submission, error)
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository returns a Postgres-backed implementation.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

func (r *submissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	const query = `
        INSERT INTO submissions (id, task_id, profile_id, level, message, link)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		submission.ID,
		submission.TaskID,
		submission.ProfileID,
		string(submission.Level),
		submission.Message,
		submission.Link,
	).Scan(&submission.CreatedAt)
}

func (r *submissionRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Submission, error) {
	const query = `
        SELECT id, task_id, profile_id, level, message, link, created_at
        FROM submissions WHERE task_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := []domain.Submission{}
	for rows.Next() {
		var (
			submission domain.Submission
			rawLevel   string
		)
		if err := rows.Scan(
			&submission.ID,
			&submission.TaskID,
			&submission.ProfileID,
			&rawLevel,
			&submission.Message,
			&submission.Link,
			&submission.CreatedAt,
		); err != nil {
			return nil, err
		}
		level, err := domain.ParseLevel(rawLevel)
		if err != nil {
			return nil, err
		}
		submission.Level = level
		submissions = append(submissions, submission)
	}
	return submissions, rows.Err()
}
