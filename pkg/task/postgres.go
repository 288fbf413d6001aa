package task

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/StricklySoft/taskhub/pkg/clients/postgres"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// schemaDDL is idempotent so EnsureSchema can run on every startup.
// The owner/created_at index backs the List query (owner predicate +
// newest-first ordering).
const schemaDDL = `
CREATE TABLE IF NOT EXISTS tasks (
    id          UUID PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'pending',
    priority    TEXT NOT NULL DEFAULT 'medium',
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks (owner_id, created_at DESC)`

// PostgresRepository implements [Repository] over the shared postgres
// client. All statements carry owner_id as a predicate.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository constructs a repository bound to the given client.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

// EnsureSchema creates the tasks table and its indexes if they do not
// exist. Safe to call on every startup.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.Exec(ctx, schemaDDL); err != nil {
		return taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to ensure schema")
	}
	return nil
}

// Create inserts a fully populated task.
func (r *PostgresRepository) Create(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (id, owner_id, title, description, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.client.Exec(ctx, query,
		t.ID, t.OwnerID, t.Title, t.Description, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to create task")
	}
	return nil
}

// GetByID returns the owner's task by ID, including soft-deleted rows.
func (r *PostgresRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*Task, error) {
	query := `
		SELECT id, owner_id, title, description, status, priority, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1 AND id = $2`

	var t Task
	err := r.client.QueryRow(ctx, query, ownerID, id).Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, taskerr.Newf(taskerr.CodeNotFoundTask,
				"task: task %s not found", id)
		}
		return nil, taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to get task")
	}
	return &t, nil
}

// List returns the owner's non-deleted tasks, newest first.
func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*Task, error) {
	query := `
		SELECT id, owner_id, title, description, status, priority, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1 AND status <> 'deleted'
		ORDER BY created_at DESC`

	rows, err := r.client.Query(ctx, query, ownerID)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to list tasks")
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, taskerr.Wrap(err, taskerr.CodeInternalDatabase,
				"task: failed to scan task row")
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to read task rows")
	}
	return tasks, nil
}

// Update writes all mutable columns in a single statement so the fields
// and updated_at land atomically.
func (r *PostgresRepository) Update(ctx context.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6, updated_at = $7
		WHERE owner_id = $1 AND id = $2`

	tag, err := r.client.Exec(ctx, query,
		t.OwnerID, t.ID, t.Title, t.Description, t.Status, t.Priority, t.UpdatedAt)
	if err != nil {
		return taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to update task")
	}
	if tag.RowsAffected() == 0 {
		return taskerr.Newf(taskerr.CodeNotFoundTask,
			"task: task %s not found", t.ID)
	}
	return nil
}

// MarkDeleted soft-deletes the owner's task.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE tasks
		SET status = 'deleted', updated_at = $3
		WHERE owner_id = $1 AND id = $2`

	tag, err := r.client.Exec(ctx, query, ownerID, id, now)
	if err != nil {
		return taskerr.Wrap(err, taskerr.CodeInternalDatabase,
			"task: failed to delete task")
	}
	if tag.RowsAffected() == 0 {
		return taskerr.Newf(taskerr.CodeNotFoundTask,
			"task: task %s not found", id)
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
