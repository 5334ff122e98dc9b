package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/video-analysis-service/internal/entity"
)

// ResultRepoImpl mirrors finished tasks into the `analysis_results` table:
//
//	CREATE TABLE analysis_results (
//	    task_id         TEXT PRIMARY KEY,
//	    url             TEXT NOT NULL,
//	    status          TEXT NOT NULL,
//	    screenshot_path TEXT,
//	    transcript      JSONB,
//	    error_message   TEXT,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    completed_at    TIMESTAMPTZ
//	);
type ResultRepoImpl struct {
	db *pgxpool.Pool
}

// NewResultRepo creates a PostgreSQL-backed result mirror.
func NewResultRepo(db *pgxpool.Pool) *ResultRepoImpl {
	return &ResultRepoImpl{db: db}
}

// Save upserts the task record keyed by task id.
func (r *ResultRepoImpl) Save(ctx context.Context, task *entity.Task) error {
	transcriptJSON, err := json.Marshal(task.Transcript)
	if err != nil {
		return fmt.Errorf("failed to encode transcript for task %s: %w", task.ID, err)
	}

	query := `
		INSERT INTO analysis_results (task_id, url, status, screenshot_path, transcript, error_message, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (task_id) DO UPDATE SET
			status = EXCLUDED.status,
			screenshot_path = EXCLUDED.screenshot_path,
			transcript = EXCLUDED.transcript,
			error_message = EXCLUDED.error_message,
			completed_at = EXCLUDED.completed_at;
	`

	_, err = r.db.Exec(ctx, query,
		task.ID,
		task.URL,
		string(task.Status),
		task.ScreenshotPath,
		transcriptJSON,
		task.Error,
		task.CreatedAt,
		task.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert result for task %s: %w", task.ID, err)
	}
	return nil
}
