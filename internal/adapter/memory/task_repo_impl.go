package memory

import (
	"context"
	"sync"

	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
)

// TaskRepoImpl is the default in-process TaskRepository, a mutex-guarded map.
// Entries are never evicted; they accumulate for the life of the process.
type TaskRepoImpl struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
}

// NewTaskRepo creates a new in-memory task store.
func NewTaskRepo() *TaskRepoImpl {
	return &TaskRepoImpl{tasks: make(map[string]*entity.Task)}
}

// Create inserts a new task under its id.
func (r *TaskRepoImpl) Create(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; ok {
		return repository.ErrTaskExists
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

// Update replaces the stored value wholesale.
func (r *TaskRepoImpl) Update(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

// Get returns a private copy of the current task value, so polling readers
// never observe in-place mutation by the pipeline.
func (r *TaskRepoImpl) Get(ctx context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return task.Clone(), nil
}
