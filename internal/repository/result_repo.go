package repository

import (
	"context"

	"github.com/user/video-analysis-service/internal/entity"
)

// ResultRepository mirrors finished tasks to durable storage, keyed by task
// id. Save overwrites any previous record for the same task.
type ResultRepository interface {
	Save(ctx context.Context, task *entity.Task) error
}
