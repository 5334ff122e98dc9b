package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/video-analysis-service/internal/entity"
)

// ResultRepoImpl mirrors finished tasks as one JSON file per task id under a
// results directory. Saving the same id again overwrites the previous file.
type ResultRepoImpl struct {
	dir string
}

// NewResultRepo creates a file-based result mirror rooted at dir.
func NewResultRepo(dir string) (*ResultRepoImpl, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &ResultRepoImpl{dir: dir}, nil
}

// Save writes the task as indented JSON at <dir>/<id>.json.
func (r *ResultRepoImpl) Save(ctx context.Context, task *entity.Task) error {
	payload, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode task %s: %w", task.ID, err)
	}
	path := filepath.Join(r.dir, task.ID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}
