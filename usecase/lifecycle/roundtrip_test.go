package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/repository"
)

// memStore applies writes to an in-memory record and pushes a fresh
// snapshot into the engine after each one, closing the store→engine loop
// the way the realtime store does.
type memStore struct {
	engine *Engine
	tasks  map[string]domain.Task
	order  []string
}

func newMemStore() *memStore {
	return &memStore{tasks: make(map[string]domain.Task)}
}

func (s *memStore) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.CancelFunc, error) {
	fn(s.snapshot())
	return func() {}, nil
}

func (s *memStore) Create(ctx context.Context, fields repository.TaskFields) (string, error) {
	id := "task-" + time.Now().Format("150405.000000000")
	s.tasks[id] = domain.Task{
		ID:          id,
		Title:       fields.Title,
		Description: fields.Description,
		Completed:   fields.Completed,
		Priority:    fields.Priority,
		DueAt:       fields.DueAt,
		AlarmFired:  fields.AlarmFired,
		CreatedAt:   fields.CreatedAt,
		UpdatedAt:   fields.UpdatedAt,
	}
	s.order = append([]string{id}, s.order...)
	s.push()
	return id, nil
}

func (s *memStore) Update(ctx context.Context, id string, patch repository.TaskPatch) error {
	task, ok := s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.AlarmFired != nil {
		task.AlarmFired = *patch.AlarmFired
	}
	if patch.DueAt.Set {
		task.DueAt = patch.DueAt.Value
	}
	if patch.UpdatedAt != nil {
		task.UpdatedAt = *patch.UpdatedAt
	}
	s.tasks[id] = task
	s.push()
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.push()
	return nil
}

func (s *memStore) snapshot() []domain.Task {
	tasks := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks
}

func (s *memStore) push() {
	if s.engine != nil {
		s.engine.OnSnapshot(s.snapshot())
	}
}

func TestEditRoundTripOnlyAdvancesUpdatedAt(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store := newMemStore()
	engine := New(store, nil, nil)
	store.engine = engine

	now := createdAt
	engine.now = func() time.Time { return now }

	due := createdAt.Add(24 * time.Hour)
	require.NoError(t, engine.Submit(context.Background(), SubmitInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueAt:       &due,
	}))

	view := engine.View()
	require.Len(t, view.Tasks, 1)
	original := view.Tasks[0].Task

	// Re-submit through an edit with identical form values.
	now = createdAt.Add(10 * time.Minute)
	_, err := engine.BeginEdit(original.ID)
	require.NoError(t, err)
	require.NoError(t, engine.Submit(context.Background(), SubmitInput{
		Title:       original.Title,
		Description: original.Description,
	}))

	view = engine.View()
	require.Len(t, view.Tasks, 1)
	edited := view.Tasks[0].Task

	assert.Equal(t, original.Title, edited.Title)
	assert.Equal(t, original.Description, edited.Description)
	require.NotNil(t, edited.DueAt)
	assert.Equal(t, *original.DueAt, *edited.DueAt)
	assert.Equal(t, original.CreatedAt, edited.CreatedAt)
	assert.True(t, edited.UpdatedAt.After(original.UpdatedAt))
}
