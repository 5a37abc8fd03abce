package lifecycle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/repository"
	"github.com/taskstream/backend/usecase"
)

// Engine owns the in-memory task list and every state transition on it.
// Exactly two asynchronous sources mutate its state: snapshot deliveries
// from the store subscription and alarm ticks. Both are serialized through
// the engine's mutex; the presentation layer only reads the derived view
// and dispatches intents.
type Engine struct {
	store    repository.TaskStore
	notifier usecase.Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.RWMutex
	tasks      []domain.Task
	filter     Filter
	search     string
	editTarget string

	cancelSub repository.CancelFunc
}

// SubmitInput carries the form fields of a submit intent. A nil DueAt means
// the deadline field was left untouched: on create the task gets no
// deadline, on edit the stored deadline is left as-is.
type SubmitInput struct {
	Title       string
	Description string
	DueAt       *time.Time
}

// New creates an engine over the given store.
func New(store repository.TaskStore, notifier usecase.Notifier, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		filter:   FilterAll,
	}
}

// Start subscribes to the store. The subscription stays live until Close.
func (e *Engine) Start(ctx context.Context) error {
	cancel, err := e.store.Subscribe(ctx, e.OnSnapshot)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.cancelSub = cancel
	e.mu.Unlock()
	return nil
}

// Close tears down the store subscription. The alarm scheduler must be
// stopped alongside so no tick acts on a disposed engine.
func (e *Engine) Close() {
	e.mu.Lock()
	cancel := e.cancelSub
	e.cancelSub = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// OnSnapshot replaces the task list wholesale. The store delivers tasks
// most recently created first; the engine keeps that order verbatim.
func (e *Engine) OnSnapshot(tasks []domain.Task) {
	e.mu.Lock()
	e.tasks = tasks
	e.mu.Unlock()
}

// Submit creates a new task, or applies the pending edit when one is in
// progress. Validation failures surface before any store write.
func (e *Engine) Submit(ctx context.Context, in SubmitInput) error {
	if err := domain.ValidateTitle(in.Title); err != nil {
		return err
	}

	e.mu.RLock()
	target := e.editTarget
	e.mu.RUnlock()

	now := e.now()
	if target != "" {
		patch := repository.TaskPatch{
			Title:       &in.Title,
			Description: &in.Description,
			UpdatedAt:   &now,
		}
		if in.DueAt != nil {
			patch.DueAt = repository.SetTime(*in.DueAt)
			// A new deadline re-arms the alarm.
			armed := false
			patch.AlarmFired = &armed
		}
		if err := e.store.Update(ctx, target, patch); err != nil {
			return err
		}
		// Edit state resets only once the write succeeded.
		e.mu.Lock()
		if e.editTarget == target {
			e.editTarget = ""
		}
		e.mu.Unlock()
		return nil
	}

	fields := repository.TaskFields{
		Title:       in.Title,
		Description: in.Description,
		DueAt:       in.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := e.store.Create(ctx, fields)
	return err
}

// BeginEdit marks the task as the edit target and returns its current
// field values for the form.
func (e *Engine) BeginEdit(id string) (domain.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, task := range e.tasks {
		if task.ID == id {
			e.editTarget = id
			return task, nil
		}
	}
	return domain.Task{}, domain.ErrTaskNotFound
}

// Delete removes the task. Deleting the task currently under edit aborts
// the edit so no submit can target a vanished id.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}
	e.mu.Lock()
	if e.editTarget == id {
		e.editTarget = ""
	}
	e.mu.Unlock()
	return nil
}

// ToggleCompleted flips the completion flag. AlarmFired and DueAt are left
// untouched.
func (e *Engine) ToggleCompleted(ctx context.Context, id string) error {
	task, err := e.find(id)
	if err != nil {
		return err
	}
	completed := !task.Completed
	now := e.now()
	return e.store.Update(ctx, id, repository.TaskPatch{
		Completed: &completed,
		UpdatedAt: &now,
	})
}

// TogglePriority flips the priority flag.
func (e *Engine) TogglePriority(ctx context.Context, id string) error {
	task, err := e.find(id)
	if err != nil {
		return err
	}
	priority := !task.Priority
	now := e.now()
	return e.store.Update(ctx, id, repository.TaskPatch{
		Priority:  &priority,
		UpdatedAt: &now,
	})
}

// SetFilter selects which completion states the derived view shows.
func (e *Engine) SetFilter(f Filter) {
	e.mu.Lock()
	e.filter = f
	e.mu.Unlock()
}

// SetSearch narrows the derived view to titles containing the text.
func (e *Engine) SetSearch(text string) {
	e.mu.Lock()
	e.search = text
	e.mu.Unlock()
}

// EditTarget returns the id currently being edited, empty when none.
func (e *Engine) EditTarget() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.editTarget
}

// Tick runs one alarm pass: every pending task whose deadline has been
// reached and whose alarm has not fired yet gets exactly one notification,
// then the fired flag is persisted so no later tick repeats it. The check
// is against the absolute deadline on every tick, so missed ticks are
// caught up rather than lost.
func (e *Engine) Tick(ctx context.Context) {
	now := e.now()

	e.mu.RLock()
	var due []domain.Task
	for _, task := range e.tasks {
		if task.AlarmDue(now) {
			due = append(due, task)
		}
	}
	e.mu.RUnlock()

	for _, task := range due {
		if e.notifier != nil {
			if err := e.notifier.NotifyDue(ctx, task); err != nil {
				e.logger.Warn("alarm notification failed", zap.String("task_id", task.ID), zap.Error(err))
			}
		}

		fired := true
		if err := e.store.Update(ctx, task.ID, repository.TaskPatch{AlarmFired: &fired}); err != nil {
			// Left un-flagged: the next tick retries the whole alarm.
			e.logger.Error("alarm flag persist failed", zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		e.markAlarmFired(task.ID)
	}
}

// markAlarmFired mirrors the persisted flag locally so the alarm stays
// quiet during the window before the next snapshot arrives.
func (e *Engine) markAlarmFired(id string) {
	e.mu.Lock()
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			e.tasks[i].AlarmFired = true
			break
		}
	}
	e.mu.Unlock()
}

func (e *Engine) find(id string) (domain.Task, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, task := range e.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return domain.Task{}, domain.ErrTaskNotFound
}
