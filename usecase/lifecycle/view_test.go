package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskstream/backend/domain"
)

func viewTitles(v View) []string {
	titles := make([]string, 0, len(v.Tasks))
	for _, task := range v.Tasks {
		titles = append(titles, task.Title)
	}
	return titles
}

func TestViewStablePartitionPendingFirst(t *testing.T) {
	engine, _, _ := newTestEngine(t, time.Now())
	engine.OnSnapshot([]domain.Task{
		taskAt("a", "A", false),
		taskAt("b", "B", true),
		taskAt("c", "C", false),
	})

	view := engine.View()

	assert.Equal(t, []string{"A", "C", "B"}, viewTitles(view))
}

func TestViewFilterCompletedAndPending(t *testing.T) {
	engine, _, _ := newTestEngine(t, time.Now())
	engine.OnSnapshot([]domain.Task{
		taskAt("a", "A", false),
		taskAt("b", "B", true),
	})

	engine.SetFilter(FilterCompleted)
	assert.Equal(t, []string{"B"}, viewTitles(engine.View()))

	engine.SetFilter(FilterPending)
	assert.Equal(t, []string{"A"}, viewTitles(engine.View()))

	engine.SetFilter(FilterAll)
	assert.Equal(t, []string{"A", "B"}, viewTitles(engine.View()))
}

func TestViewSearchMatchesTitleSubstring(t *testing.T) {
	engine, _, _ := newTestEngine(t, time.Now())
	engine.OnSnapshot([]domain.Task{
		taskAt("a", "Buy milk", false),
		taskAt("b", "Buy eggs", false),
	})

	engine.SetSearch("milk")
	assert.Equal(t, []string{"Buy milk"}, viewTitles(engine.View()))

	engine.SetSearch("MILK")
	assert.Equal(t, []string{"Buy milk"}, viewTitles(engine.View()), "match is case-insensitive")

	engine.SetSearch("")
	assert.Equal(t, []string{"Buy milk", "Buy eggs"}, viewTitles(engine.View()))
}

func TestViewCompletedTaskIsNeverOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, now)
	past := now.Add(-time.Hour)
	engine.OnSnapshot([]domain.Task{
		{ID: "a", Title: "Done late", Completed: true, DueAt: &past},
	})

	view := engine.View()

	require.Len(t, view.Tasks, 1)
	assert.False(t, view.Tasks[0].Overdue)
	assert.Empty(t, view.Tasks[0].Countdown)
}

func TestViewNoDeadlineMeansNoCountdown(t *testing.T) {
	engine, _, _ := newTestEngine(t, time.Now())
	engine.OnSnapshot([]domain.Task{taskAt("a", "Open ended", false)})

	view := engine.View()

	require.Len(t, view.Tasks, 1)
	assert.False(t, view.Tasks[0].Overdue)
	assert.Empty(t, view.Tasks[0].Countdown)
}

func TestViewCountdownFormatting(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, now)
	due := now.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)
	expired := now.Add(-time.Second)
	engine.OnSnapshot([]domain.Task{
		{ID: "a", Title: "Future", DueAt: &due},
		{ID: "b", Title: "Past", DueAt: &expired},
	})

	view := engine.View()

	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "2d 03:04:05", view.Tasks[0].Countdown)
	assert.False(t, view.Tasks[0].Overdue)
	assert.Equal(t, "Expired", view.Tasks[1].Countdown)
	assert.True(t, view.Tasks[1].Overdue)
}

func TestViewCarriesEngineState(t *testing.T) {
	engine, _, _ := newTestEngine(t, time.Now())
	engine.OnSnapshot([]domain.Task{taskAt("a", "A", false)})
	engine.SetFilter(FilterPending)
	engine.SetSearch("a")
	_, err := engine.BeginEdit("a")
	require.NoError(t, err)

	view := engine.View()

	assert.Equal(t, FilterPending, view.Filter)
	assert.Equal(t, "a", view.Search)
	assert.Equal(t, "a", view.EditTarget)
}

func TestParseFilter(t *testing.T) {
	for raw, want := range map[string]Filter{
		"":          FilterAll,
		"all":       FilterAll,
		"Completed": FilterCompleted,
		"pending":   FilterPending,
	} {
		got, err := ParseFilter(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseFilter("someday")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
