package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the owner-scoped storage contract for tasks. Every
// method takes or carries an owner ID, and implementations must apply
// it as a predicate on every statement: a task that exists under a
// different owner must behave exactly like a task that does not exist.
type Repository interface {
	// Create inserts a fully populated task.
	Create(ctx context.Context, t *Task) error

	// GetByID returns the task with the given ID belonging to ownerID,
	// including soft-deleted tasks. Returns CodeNotFoundTask when no
	// such row exists for the owner.
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (*Task, error)

	// List returns the owner's tasks excluding soft-deleted ones,
	// newest first. An owner with no tasks gets an empty slice.
	List(ctx context.Context, ownerID string) ([]*Task, error)

	// Update writes all mutable columns of t in a single statement,
	// keyed by (t.OwnerID, t.ID). Returns CodeNotFoundTask when the
	// row is absent for the owner.
	Update(ctx context.Context, t *Task) error

	// MarkDeleted sets the task's status to deleted and bumps
	// updated_at. Returns CodeNotFoundTask when the row is absent for
	// the owner.
	MarkDeleted(ctx context.Context, ownerID string, id uuid.UUID, now time.Time) error
}
