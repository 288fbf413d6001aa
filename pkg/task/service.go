package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/StricklySoft/taskhub/pkg/auth"
	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// Service implements the task operations on top of a [Repository].
// Every operation checks ownership first: the authenticated identity
// must match the owner named in the request before the repository is
// touched at all.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input and inserts a new task for ownerID with
// status pending, a generated ID, and matching create/update timestamps.
func (s *Service) Create(ctx context.Context, identity auth.Identity, ownerID string, in CreateInput) (*Task, error) {
	if err := requireOwner(identity, ownerID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	t := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      StatusPending,
		Priority:    in.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the owner's task by ID. Soft-deleted tasks are returned
// like any other: a task you deleted is still yours to inspect.
func (s *Service) Get(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID) (*Task, error) {
	if err := requireOwner(identity, ownerID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, ownerID, id)
}

// List returns the owner's tasks excluding soft-deleted ones, newest
// first.
func (s *Service) List(ctx context.Context, identity auth.Identity, ownerID string) ([]*Task, error) {
	if err := requireOwner(identity, ownerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID)
}

// Update applies a partial update to the owner's task. Existence and
// deleted state are checked before field validation, so an invalid field
// against a missing task still reads as not-found. Updating a
// soft-deleted task is rejected with a state validation error. An
// all-nil input is a no-op: the task is returned untouched.
func (s *Service) Update(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID, in UpdateInput) (*Task, error) {
	if err := requireOwner(identity, ownerID); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if t.Deleted() {
		return nil, taskerr.New(taskerr.CodeValidationState,
			"task: cannot update a deleted task")
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Empty() {
		return t, nil
	}

	in.apply(t)
	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete soft-deletes the owner's task. Deleting an already-deleted
// task succeeds without touching the row, so retries are harmless.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, ownerID string, id uuid.UUID) error {
	if err := requireOwner(identity, ownerID); err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if t.Deleted() {
		return nil
	}
	return s.repo.MarkDeleted(ctx, ownerID, id, s.now())
}
