package usecase

import (
	"context"

	"github.com/taskstream/backend/domain"
)

// Notifier abstracts alarm delivery so the lifecycle engine stays
// transport-agnostic. Delivery is best-effort: a failed notification is
// logged by the caller and never retried.
type Notifier interface {
	NotifyDue(ctx context.Context, task domain.Task) error
}
