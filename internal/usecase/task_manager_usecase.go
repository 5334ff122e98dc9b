package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
	"github.com/user/video-analysis-service/pkg/utils"
)

var (
	ErrUnsupportedURL = errors.New("URL is not a recognized video URL")
	ErrUnreachableURL = errors.New("video platform is unreachable")
)

// TaskManager accepts analysis submissions and serves polling reads.
type TaskManager interface {
	// Submit validates and accepts a URL, creates the queued task and starts
	// the pipeline without waiting for it. It returns the new task id.
	Submit(ctx context.Context, rawURL string) (string, error)
	// Get returns the current task value for id, or ErrTaskNotFound.
	Get(ctx context.Context, id string) (*entity.Task, error)
}

type taskManagerUseCase struct {
	taskRepo  repository.TaskRepository
	probeRepo repository.ProbeRepository
	pipeline  Pipeline
}

// NewTaskManager creates the submission/polling use case.
func NewTaskManager(taskRepo repository.TaskRepository, probeRepo repository.ProbeRepository, pipeline Pipeline) TaskManager {
	return &taskManagerUseCase{
		taskRepo:  taskRepo,
		probeRepo: probeRepo,
		pipeline:  pipeline,
	}
}

func (uc *taskManagerUseCase) Submit(ctx context.Context, rawURL string) (string, error) {
	if !utils.IsVideoURL(rawURL) {
		return "", ErrUnsupportedURL
	}

	if err := uc.probeRepo.Probe(ctx, rawURL); err != nil {
		slog.Warn("Reachability probe failed", "url", rawURL, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnreachableURL, err)
	}

	task := &entity.Task{
		ID:        uuid.NewString(),
		URL:       rawURL,
		Status:    entity.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.taskRepo.Create(ctx, task); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}

	// The submit response never waits for the pipeline. The context is
	// detached from the request so a client disconnect cannot abort work in
	// flight; a future version can swap in a cancellable parent here.
	go uc.pipeline.Run(context.WithoutCancel(ctx), task.ID)

	slog.Info("Task accepted", "task_id", task.ID, "url", rawURL)
	return task.ID, nil
}

func (uc *taskManagerUseCase) Get(ctx context.Context, id string) (*entity.Task, error) {
	return uc.taskRepo.Get(ctx, id)
}
