package repository

import (
	"context"
	"time"

	"github.com/taskstream/backend/domain"
)

// SnapshotFunc receives the complete task collection every time anything in
// it changes. Tasks arrive most-recently-created first.
type SnapshotFunc func(tasks []domain.Task)

// CancelFunc stops snapshot delivery. It must be called on teardown.
type CancelFunc func()

// TaskFields carries the full field set persisted on create.
type TaskFields struct {
	Title       string
	Description string
	Completed   bool
	Priority    bool
	DueAt       *time.Time
	AlarmFired  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionalTime distinguishes "leave unchanged" (Set=false) from "set to a
// value" and "clear the deadline" (Set=true, Value=nil). Callers that omit
// the field leave the stored deadline untouched.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// SetTime builds an OptionalTime carrying a concrete instant.
func SetTime(t time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: &t}
}

// ClearTime builds an OptionalTime that removes the stored deadline.
func ClearTime() OptionalTime {
	return OptionalTime{Set: true}
}

// TaskPatch is a partial update. Nil pointers leave the stored value as-is.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *bool
	AlarmFired  *bool
	DueAt       OptionalTime
	UpdatedAt   *time.Time
}

// TaskStore is the adapter contract to the hosted realtime store. It keeps
// no local cache; the lifecycle engine owns the only in-memory copy.
type TaskStore interface {
	// Subscribe registers fn for snapshot delivery. fn is invoked once with
	// the current collection right away and again after every change.
	Subscribe(ctx context.Context, fn SnapshotFunc) (CancelFunc, error)
	// Create persists the fields under a freshly assigned id and returns it.
	Create(ctx context.Context, fields TaskFields) (string, error)
	// Update merges the patch into an existing record. Updating an id that
	// does not exist returns domain.ErrTaskNotFound.
	Update(ctx context.Context, id string, patch TaskPatch) error
	// Delete removes the record. Deleting a missing id is a no-op success.
	Delete(ctx context.Context, id string) error
}
