package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskstream/backend/domain"
	"github.com/taskstream/backend/repository"
)

// taskStore implements repository.TaskStore on top of Redis: one hash per
// task, a sorted-set insertion index for snapshot ordering, and a pub/sub
// channel that pushes a change signal after every write. Subscribers re-read
// the whole collection on every signal; there is no incremental merge.
type taskStore struct {
	client     *redislib.Client
	collection string
	logger     *zap.Logger
}

// NewTaskStore creates a Redis-backed task store rooted at the given
// collection prefix (e.g. "inputs").
func NewTaskStore(client *redislib.Client, collection string, logger *zap.Logger) repository.TaskStore {
	if collection == "" {
		collection = "inputs"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskStore{
		client:     client,
		collection: collection,
		logger:     logger,
	}
}

func (s *taskStore) Subscribe(ctx context.Context, fn repository.SnapshotFunc) (repository.CancelFunc, error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := s.client.Subscribe(subCtx, s.eventsChannel())
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "subscribe failed", err)
	}

	// Deliver the current collection before any change arrives, matching
	// the hosted store's subscribe-then-snapshot behavior.
	initial, err := s.snapshot(subCtx)
	if err != nil {
		cancel()
		pubsub.Close()
		return nil, err
	}
	fn(initial)

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				tasks, err := s.snapshot(subCtx)
				if err != nil {
					if subCtx.Err() == nil {
						s.logger.Warn("snapshot reload failed", zap.Error(err))
					}
					continue
				}
				fn(tasks)
			}
		}
	}()

	return func() { cancel() }, nil
}

func (s *taskStore) Create(ctx context.Context, fields repository.TaskFields) (string, error) {
	id := uuid.NewString()

	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, "store write failed", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.taskKey(id), encodeFields(fields))
	pipe.ZAdd(ctx, s.indexKey(), redislib.Z{Score: float64(seq), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, "store write failed", err)
	}

	s.publish(ctx, "create", id)
	return id, nil
}

func (s *taskStore) Update(ctx context.Context, id string, patch repository.TaskPatch) error {
	exists, err := s.client.Exists(ctx, s.taskKey(id)).Result()
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "store write failed", err)
	}
	if exists == 0 {
		return domain.ErrTaskNotFound
	}

	values, removals := encodePatch(patch)
	if len(values) == 0 && len(removals) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	if len(values) > 0 {
		pipe.HSet(ctx, s.taskKey(id), values)
	}
	if len(removals) > 0 {
		pipe.HDel(ctx, s.taskKey(id), removals...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "store write failed", err)
	}

	s.publish(ctx, "update", id)
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.taskKey(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "store write failed", err)
	}

	s.publish(ctx, "delete", id)
	return nil
}

// snapshot loads every task, most recently created first.
func (s *taskStore) snapshot(ctx context.Context) ([]domain.Task, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "snapshot load failed", err)
	}

	tasks := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		values, err := s.client.HGetAll(ctx, s.taskKey(id)).Result()
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "snapshot load failed", err)
		}
		if len(values) == 0 {
			// Deleted between index read and hash read; the delete signal
			// will trigger another snapshot.
			continue
		}
		task, err := decodeTask(id, values)
		if err != nil {
			s.logger.Warn("skipping undecodable task record", zap.String("task_id", id), zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *taskStore) publish(ctx context.Context, event, id string) {
	if err := s.client.Publish(ctx, s.eventsChannel(), event+":"+id).Err(); err != nil {
		s.logger.Warn("change signal publish failed", zap.String("event", event), zap.Error(err))
	}
}

func (s *taskStore) taskKey(id string) string {
	return fmt.Sprintf("%s:task:%s", s.collection, id)
}

func (s *taskStore) indexKey() string {
	return s.collection + ":index"
}

func (s *taskStore) seqKey() string {
	return s.collection + ":seq"
}

func (s *taskStore) eventsChannel() string {
	return s.collection + ":events"
}
