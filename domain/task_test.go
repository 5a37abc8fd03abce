package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Task{}).IsOverdue(now), "no deadline")
	assert.False(t, (&Task{DueAt: &future}).IsOverdue(now), "deadline ahead")
	assert.True(t, (&Task{DueAt: &past}).IsOverdue(now))
	assert.True(t, (&Task{DueAt: &now}).IsOverdue(now), "due instant itself counts")
	assert.False(t, (&Task{DueAt: &past, Completed: true}).IsOverdue(now), "completed is never overdue")
}

func TestAlarmDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	assert.True(t, (&Task{DueAt: &past}).AlarmDue(now))
	assert.False(t, (&Task{DueAt: &past, AlarmFired: true}).AlarmDue(now))
	assert.False(t, (&Task{DueAt: &past, Completed: true}).AlarmDue(now))
	assert.False(t, (&Task{}).AlarmDue(now))
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Buy milk"))
	assert.NoError(t, ValidateTitle("  padded  "))
	assert.ErrorIs(t, ValidateTitle(""), ErrEmptyTitle)
	assert.ErrorIs(t, ValidateTitle("   "), ErrEmptyTitle)
}
