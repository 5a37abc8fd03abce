package domain

import (
	"strings"
	"time"
)

// Task represents a single to-do item owned by the lifecycle engine.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    bool       `json:"priority"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	AlarmFired  bool       `json:"alarm_fired"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasDeadline reports whether the task carries a due instant.
func (t *Task) HasDeadline() bool {
	return t != nil && t.DueAt != nil
}

// IsOverdue reports whether the due instant has passed for a task that is
// still pending. Completed tasks are never overdue, regardless of DueAt.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.Completed || t.DueAt == nil {
		return false
	}
	return !t.DueAt.After(now)
}

// AlarmDue reports whether the alarm side effect should fire for this task:
// the deadline has been reached, the task is pending, and the alarm has not
// fired before.
func (t *Task) AlarmDue(now time.Time) bool {
	return t.IsOverdue(now) && !t.AlarmFired
}

// ValidateTitle rejects titles that are empty after trimming.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
