package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
)

const taskKeyPrefix = "analysis:task:"

// TaskRepoImpl is a Redis-backed TaskRepository. Tasks are stored as JSON
// values keyed by id, with no expiry, matching the in-memory store's
// never-evict contract while surviving process restarts.
type TaskRepoImpl struct {
	client *redis.Client
}

// NewTaskRepo creates a new Redis-backed task store.
func NewTaskRepo(client *redis.Client) *TaskRepoImpl {
	return &TaskRepoImpl{client: client}
}

func (r *TaskRepoImpl) key(id string) string {
	return taskKeyPrefix + id
}

// Create inserts a new task. SETNX keeps the fresh-id guarantee even with
// multiple service replicas sharing the store.
func (r *TaskRepoImpl) Create(ctx context.Context, task *entity.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	ok, err := r.client.SetNX(ctx, r.key(task.ID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create task %s: %w", task.ID, err)
	}
	if !ok {
		return repository.ErrTaskExists
	}
	return nil
}

// Update replaces the stored value wholesale.
func (r *TaskRepoImpl) Update(ctx context.Context, task *entity.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	if err := r.client.Set(ctx, r.key(task.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to update task %s: %w", task.ID, err)
	}
	return nil
}

// Get returns the current task value.
func (r *TaskRepoImpl) Get(ctx context.Context, id string) (*entity.Task, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task %s: %w", id, err)
	}
	var task entity.Task
	if err := json.Unmarshal(val, &task); err != nil {
		return nil, fmt.Errorf("failed to decode task %s: %w", id, err)
	}
	return &task, nil
}
