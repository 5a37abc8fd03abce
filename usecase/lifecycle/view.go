package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskstream/backend/domain"
)

// Filter selects which completion states the derived view includes.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterCompleted Filter = "Completed"
	FilterPending   Filter = "Pending"
)

// ParseFilter maps user input onto a Filter, defaulting to All for the
// empty string.
func ParseFilter(raw string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "completed":
		return FilterCompleted, nil
	case "pending":
		return FilterPending, nil
	default:
		return FilterAll, domain.NewError(domain.ErrCodeInvalid, "unknown filter "+raw)
	}
}

// ViewTask is one rendered row of the derived view.
type ViewTask struct {
	domain.Task
	Overdue   bool   `json:"overdue"`
	Countdown string `json:"countdown,omitempty"`
}

// View is the derived view model the presentation layer renders.
type View struct {
	Tasks      []ViewTask `json:"tasks"`
	Filter     Filter     `json:"filter"`
	Search     string     `json:"search,omitempty"`
	EditTarget string     `json:"edit_target,omitempty"`
}

// View computes the derived view model from the current state: search
// match on title, completion filter, and for the All filter a stable
// partition that lists pending tasks before completed ones without
// reordering within either group.
func (e *Engine) View() View {
	now := e.now()

	e.mu.RLock()
	defer e.mu.RUnlock()

	needle := strings.ToLower(e.search)
	matched := make([]domain.Task, 0, len(e.tasks))
	for _, task := range e.tasks {
		if needle != "" && !strings.Contains(strings.ToLower(task.Title), needle) {
			continue
		}
		switch e.filter {
		case FilterCompleted:
			if !task.Completed {
				continue
			}
		case FilterPending:
			if task.Completed {
				continue
			}
		}
		matched = append(matched, task)
	}

	if e.filter == FilterAll {
		matched = partitionPendingFirst(matched)
	}

	view := View{
		Tasks:      make([]ViewTask, 0, len(matched)),
		Filter:     e.filter,
		Search:     e.search,
		EditTarget: e.editTarget,
	}
	for _, task := range matched {
		view.Tasks = append(view.Tasks, ViewTask{
			Task:      task,
			Overdue:   task.IsOverdue(now),
			Countdown: countdown(task, now),
		})
	}
	return view
}

// partitionPendingFirst is a stable partition, not a sort: relative order
// inside each group is preserved exactly.
func partitionPendingFirst(tasks []domain.Task) []domain.Task {
	ordered := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed {
			ordered = append(ordered, task)
		}
	}
	for _, task := range tasks {
		if task.Completed {
			ordered = append(ordered, task)
		}
	}
	return ordered
}

// countdown renders the remaining time until the deadline as
// "{days}d HH:MM:SS", the literal "Expired" once the deadline has passed,
// and nothing for completed or deadline-less tasks.
func countdown(task domain.Task, now time.Time) string {
	if task.Completed || task.DueAt == nil {
		return ""
	}
	remaining := task.DueAt.Sub(now)
	if remaining <= 0 {
		return "Expired"
	}

	days := int(remaining / (24 * time.Hour))
	remaining -= time.Duration(days) * 24 * time.Hour
	hours := int(remaining / time.Hour)
	remaining -= time.Duration(hours) * time.Hour
	minutes := int(remaining / time.Minute)
	seconds := int((remaining - time.Duration(minutes)*time.Minute) / time.Second)

	return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, seconds)
}
