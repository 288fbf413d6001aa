// Package task implements the task domain for TaskHub: the task model
// with its validation rules, an owner-scoped repository over PostgreSQL,
// and a service layer that enforces ownership before any storage access.
//
// Every task belongs to exactly one owner (the authenticated subject).
// The repository contract requires an owner ID on every query, so a task
// belonging to another tenant is indistinguishable from a task that does
// not exist.
//
// Deletion is soft: deleted tasks keep their row with status "deleted",
// disappear from listings, remain readable by ID, and reject updates.
package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// Field limits applied on create and update, counted in characters
// (runes), not bytes. Titles and descriptions are trimmed before the
// length check.
const (
	MaxTitleLength       = 500
	MaxDescriptionLength = 10000
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"

	// StatusDeleted marks a soft-deleted task. It is only ever set
	// through [Service.Delete], never through an update.
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDeleted:
		return true
	}
	return false
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single task row. OwnerID is the authenticated subject that
// created the task; all repository access is scoped to it.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Deleted reports whether the task has been soft-deleted.
func (t *Task) Deleted() bool {
	return t.Status == StatusDeleted
}

// CreateInput carries the caller-supplied fields for a new task.
// Priority may be empty, in which case [PriorityMedium] is applied.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// Validate checks field constraints and normalizes the input: title and
// description are trimmed of surrounding whitespace and an empty
// priority defaults to medium. Returns a validation error describing the
// first problem found.
func (in *CreateInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return taskerr.New(taskerr.CodeValidationRequired,
			"task: title must not be blank")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return taskerr.Newf(taskerr.CodeValidationRange,
			"task: title must be at most %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return taskerr.Newf(taskerr.CodeValidationRange,
			"task: description must be at most %d characters", MaxDescriptionLength)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.Valid() {
		return taskerr.Newf(taskerr.CodeValidation,
			"task: priority must be one of low, medium, high (got %q)", in.Priority)
	}
	return nil
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *Status   `json:"status"`
	Priority    *Priority `json:"priority"`
}

// Empty reports whether the input carries no fields at all.
func (in *UpdateInput) Empty() bool {
	return in.Title == nil && in.Description == nil &&
		in.Status == nil && in.Priority == nil
}

// Validate checks the constraints of every present field and normalizes
// present title and description by trimming them. An all-nil input is
// valid: the update is a no-op. Setting the status to deleted is
// rejected: soft deletion only happens through [Service.Delete].
func (in *UpdateInput) Validate() error {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return taskerr.New(taskerr.CodeValidationRequired,
				"task: title must not be blank")
		}
		if utf8.RuneCountInString(trimmed) > MaxTitleLength {
			return taskerr.Newf(taskerr.CodeValidationRange,
				"task: title must be at most %d characters", MaxTitleLength)
		}
		in.Title = &trimmed
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(trimmed) > MaxDescriptionLength {
			return taskerr.Newf(taskerr.CodeValidationRange,
				"task: description must be at most %d characters", MaxDescriptionLength)
		}
		in.Description = &trimmed
	}
	if in.Status != nil {
		if *in.Status == StatusDeleted {
			return taskerr.New(taskerr.CodeValidation,
				"task: status cannot be set to deleted, delete the task instead")
		}
		if !in.Status.Valid() {
			return taskerr.Newf(taskerr.CodeValidation,
				"task: status must be one of pending, in_progress, completed (got %q)", *in.Status)
		}
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return taskerr.Newf(taskerr.CodeValidation,
			"task: priority must be one of low, medium, high (got %q)", *in.Priority)
	}
	return nil
}

// apply copies the present fields onto t. Call only after Validate.
func (in *UpdateInput) apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
}
