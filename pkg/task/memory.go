package task

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// MemoryRepository is an in-memory [Repository] for tests and local
// development. It honors the same contract as the postgres
// implementation: owner scoping on every call, listings excluding
// deleted rows newest first, and not-found for absent or cross-owner
// rows.
type MemoryRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*Task
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[uuid.UUID]*Task)}
}

func (r *MemoryRepository) Create(_ context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, ownerID string, id uuid.UUID) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, taskerr.Newf(taskerr.CodeNotFoundTask, "task: task %s not found", id)
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, ownerID string) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Task, 0)
	for _, t := range r.tasks {
		if t.OwnerID == ownerID && t.Status != StatusDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, t *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[t.ID]
	if !ok || existing.OwnerID != t.OwnerID {
		return taskerr.Newf(taskerr.CodeNotFoundTask, "task: task %s not found", t.ID)
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryRepository) MarkDeleted(_ context.Context, ownerID string, id uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return taskerr.Newf(taskerr.CodeNotFoundTask, "task: task %s not found", id)
	}
	t.Status = StatusDeleted
	t.UpdatedAt = now
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
