package repository

import (
	"context"

	"github.com/user/video-analysis-service/internal/entity"
)

// TaskRepository is the single source of truth for task progress polling.
// Implementations must be safe under one writer per task plus any number of
// concurrent readers; entries for distinct tasks never block each other.
// There is no deletion or expiry: entries accumulate for the life of the
// store.
type TaskRepository interface {
	// Create inserts a new task. A duplicate id fails with ErrTaskExists.
	Create(ctx context.Context, task *entity.Task) error
	// Update replaces the stored value wholesale, not a merge; callers carry
	// forward every field they want preserved.
	Update(ctx context.Context, task *entity.Task) error
	// Get returns the current task value, or ErrTaskNotFound.
	Get(ctx context.Context, id string) (*entity.Task, error)
}
