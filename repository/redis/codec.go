package redis

import (
	"strconv"
	"time"

	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/repository"
)

// Wire field names of a task hash. The collection predates this service, so
// the names and the timestamp layout are kept as stored.
const (
	fieldTitle       = "todoname"
	fieldDescription = "description"
	fieldCompleted   = "completed"
	fieldPriority    = "priority"
	fieldDueDate     = "dueDate"
	fieldAlarm       = "alarmTriggered"
	fieldCreatedAt   = "createdAt"
	fieldUpdatedAt   = "updatedAt"
)

// stampLayout is the legacy creation/update timestamp format ("DD-MM-YYYY
// hh:mm:ss AM/PM"). Due dates use RFC 3339.
const stampLayout = "02-01-2006 03:04:05 PM"

func encodeFields(fields repository.TaskFields) map[string]interface{} {
	values := map[string]interface{}{
		fieldTitle:       fields.Title,
		fieldDescription: fields.Description,
		fieldCompleted:   strconv.FormatBool(fields.Completed),
		fieldPriority:    strconv.FormatBool(fields.Priority),
		fieldAlarm:       strconv.FormatBool(fields.AlarmFired),
		fieldCreatedAt:   fields.CreatedAt.Format(stampLayout),
		fieldUpdatedAt:   fields.UpdatedAt.Format(stampLayout),
	}
	if fields.DueAt != nil {
		values[fieldDueDate] = fields.DueAt.Format(time.RFC3339)
	}
	return values
}

// encodePatch splits a partial update into fields to set and fields to
// remove. An unset OptionalTime touches nothing; a cleared one removes the
// dueDate field entirely.
func encodePatch(patch repository.TaskPatch) (map[string]interface{}, []string) {
	values := make(map[string]interface{})
	var removals []string

	if patch.Title != nil {
		values[fieldTitle] = *patch.Title
	}
	if patch.Description != nil {
		values[fieldDescription] = *patch.Description
	}
	if patch.Completed != nil {
		values[fieldCompleted] = strconv.FormatBool(*patch.Completed)
	}
	if patch.Priority != nil {
		values[fieldPriority] = strconv.FormatBool(*patch.Priority)
	}
	if patch.AlarmFired != nil {
		values[fieldAlarm] = strconv.FormatBool(*patch.AlarmFired)
	}
	if patch.DueAt.Set {
		if patch.DueAt.Value != nil {
			values[fieldDueDate] = patch.DueAt.Value.Format(time.RFC3339)
		} else {
			removals = append(removals, fieldDueDate)
		}
	}
	if patch.UpdatedAt != nil {
		values[fieldUpdatedAt] = patch.UpdatedAt.Format(stampLayout)
	}
	return values, removals
}

func decodeTask(id string, values map[string]string) (domain.Task, error) {
	task := domain.Task{
		ID:          id,
		Title:       values[fieldTitle],
		Description: values[fieldDescription],
	}
	task.Completed, _ = strconv.ParseBool(values[fieldCompleted])
	task.Priority, _ = strconv.ParseBool(values[fieldPriority])
	task.AlarmFired, _ = strconv.ParseBool(values[fieldAlarm])

	if raw, ok := values[fieldDueDate]; ok && raw != "" {
		due, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return task, err
		}
		task.DueAt = &due
	}
	if raw := values[fieldCreatedAt]; raw != "" {
		created, err := time.ParseInLocation(stampLayout, raw, time.Local)
		if err != nil {
			return task, err
		}
		task.CreatedAt = created
	}
	if raw := values[fieldUpdatedAt]; raw != "" {
		updated, err := time.ParseInLocation(stampLayout, raw, time.Local)
		if err != nil {
			return task, err
		}
		task.UpdatedAt = updated
	}
	return task, nil
}
