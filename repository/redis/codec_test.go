package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskstream/backend/repository"
)

func TestDecodeTaskLegacyTimestamps(t *testing.T) {
	values := map[string]string{
		fieldTitle:       "Buy milk",
		fieldDescription: "2 liters",
		fieldCompleted:   "false",
		fieldPriority:    "true",
		fieldAlarm:       "false",
		fieldDueDate:     "2025-03-12T18:30:00Z",
		fieldCreatedAt:   "10-03-2025 09:05:30 AM",
		fieldUpdatedAt:   "10-03-2025 11:45:00 PM",
	}

	task, err := decodeTask("t1", values)
	require.NoError(t, err)

	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.True(t, task.Priority)
	assert.False(t, task.Completed)

	require.NotNil(t, task.DueAt)
	assert.Equal(t, time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC), task.DueAt.UTC())
	assert.Equal(t, time.Date(2025, 3, 10, 9, 5, 30, 0, time.Local), task.CreatedAt)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 45, 0, 0, time.Local), task.UpdatedAt)
}

func TestDecodeTaskWithoutDeadline(t *testing.T) {
	task, err := decodeTask("t1", map[string]string{
		fieldTitle:     "No deadline",
		fieldCreatedAt: "01-01-2025 12:00:00 PM",
		fieldUpdatedAt: "01-01-2025 12:00:00 PM",
	})

	require.NoError(t, err)
	assert.Nil(t, task.DueAt)
}

func TestDecodeTaskRejectsBadDueDate(t *testing.T) {
	_, err := decodeTask("t1", map[string]string{
		fieldTitle:   "Broken",
		fieldDueDate: "next tuesday",
	})
	assert.Error(t, err)
}

func TestEncodeFieldsRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 5, 30, 0, time.Local)
	due := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)

	values := encodeFields(repository.TaskFields{
		Title:       "Buy milk",
		Description: "2 liters",
		Priority:    true,
		DueAt:       &due,
		CreatedAt:   created,
		UpdatedAt:   created,
	})

	assert.Equal(t, "Buy milk", values[fieldTitle])
	assert.Equal(t, "true", values[fieldPriority])
	assert.Equal(t, "false", values[fieldCompleted])
	assert.Equal(t, "10-03-2025 09:05:30 AM", values[fieldCreatedAt])
	assert.Equal(t, "2025-03-12T18:30:00Z", values[fieldDueDate])
}

func TestEncodeFieldsOmitsAbsentDeadline(t *testing.T) {
	values := encodeFields(repository.TaskFields{Title: "Open ended"})
	_, present := values[fieldDueDate]
	assert.False(t, present)
}

func TestEncodePatchOmitMeansNoChange(t *testing.T) {
	title := "Renamed"
	values, removals := encodePatch(repository.TaskPatch{Title: &title})

	assert.Equal(t, map[string]interface{}{fieldTitle: "Renamed"}, values)
	assert.Empty(t, removals)
}

func TestEncodePatchClearRemovesDeadline(t *testing.T) {
	values, removals := encodePatch(repository.TaskPatch{DueAt: repository.ClearTime()})

	assert.Empty(t, values)
	assert.Equal(t, []string{fieldDueDate}, removals)
}

func TestEncodePatchSetsDeadline(t *testing.T) {
	due := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)
	values, removals := encodePatch(repository.TaskPatch{DueAt: repository.SetTime(due)})

	assert.Equal(t, "2025-03-12T18:30:00Z", values[fieldDueDate])
	assert.Empty(t, removals)
}
