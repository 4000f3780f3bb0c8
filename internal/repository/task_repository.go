package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/internship-service/internal/domain"
)

// TaskRepository manages task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProfile(ctx context.Context, profileID string) ([]domain.Task, error)
	ListByLevel(ctx context.Context, level domain.Level) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, title, description, audience, profile_id, level, deadline, created_at, created_by`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (id, title, description, audience, profile_id, level, deadline, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at`

	var level *string
	if task.Level != nil {
		l := string(*task.Level)
		level = &l
	}

	return r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Audience),
		task.ProfileID,
		level,
		task.Deadline,
		task.CreatedBy,
	).Scan(&task.CreatedAt)
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id=$1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE profile_id=$1`
	return r.listTasks(ctx, query, profileID)
}

func (r *taskRepository) ListByLevel(ctx context.Context, level domain.Level) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE level=$1`
	return r.listTasks(ctx, query, string(level))
}

func (r *taskRepository) listTasks(ctx context.Context, query string, arg any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task        domain.Task
		rawAudience string
		rawLevel    *string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&rawAudience,
		&task.ProfileID,
		&rawLevel,
		&task.Deadline,
		&task.CreatedAt,
		&task.CreatedBy,
	); err != nil {
		return nil, err
	}
	task.Audience = domain.TaskAudience(rawAudience)
	if rawLevel != nil {
		level, err := domain.ParseLevel(*rawLevel)
		if err != nil {
			return nil, err
		}
		task.Level = &level
	}
	return &task, nil
}
