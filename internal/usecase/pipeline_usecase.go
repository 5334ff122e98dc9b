package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
	"github.com/user/video-analysis-service/pkg/metrics"
)

// Progress labels shown to polling clients, in pipeline order.
const (
	progressScreenshot = "capturing screenshot"
	progressAudio      = "extracting audio"
	progressTranscribe = "transcribing audio"
	progressDetect     = "detecting AI content"
)

// Pipeline runs the full analysis for one submitted task: screenshot, audio
// extraction, transcription, per-segment AI detection, finalize.
type Pipeline interface {
	// Run executes all stages for the task and never returns an error: every
	// stage failure is converted into the task's terminal error state.
	Run(ctx context.Context, taskID string)
}

type pipelineUseCase struct {
	taskRepo        repository.TaskRepository
	captureRepo     repository.CaptureRepository
	audioRepo       repository.AudioRepository
	transcriberRepo repository.TranscriberRepository
	detectorRepo    repository.DetectorRepository
	resultRepos     []repository.ResultRepository
}

// NewPipeline creates the analysis pipeline use case.
func NewPipeline(
	taskRepo repository.TaskRepository,
	captureRepo repository.CaptureRepository,
	audioRepo repository.AudioRepository,
	transcriberRepo repository.TranscriberRepository,
	detectorRepo repository.DetectorRepository,
	resultRepos []repository.ResultRepository,
) Pipeline {
	return &pipelineUseCase{
		taskRepo:        taskRepo,
		captureRepo:     captureRepo,
		audioRepo:       audioRepo,
		transcriberRepo: transcriberRepo,
		detectorRepo:    detectorRepo,
		resultRepos:     resultRepos,
	}
}

// Run drives the stages strictly in order, writing a task-store update at
// every stage boundary. Stages 1-3 are fatal on failure; detection degrades
// per segment and only fails outright on a configuration error.
func (uc *pipelineUseCase) Run(ctx context.Context, taskID string) {
	task, err := uc.taskRepo.Get(ctx, taskID)
	if err != nil {
		slog.Error("Pipeline started for unknown task", "task_id", taskID, "error", err)
		return
	}

	metrics.TasksInFlight.Inc()
	defer metrics.TasksInFlight.Dec()

	uc.setProgress(ctx, task, progressScreenshot)
	start := time.Now()
	shotPath, err := uc.captureRepo.Capture(ctx, task.ID, task.URL)
	metrics.StageDuration.WithLabelValues("screenshot").Observe(time.Since(start).Seconds())
	if err != nil {
		uc.fail(ctx, task, fmt.Errorf("screenshot stage failed: %w", err))
		return
	}
	task.ScreenshotPath = shotPath

	uc.setProgress(ctx, task, progressAudio)
	start = time.Now()
	audioPath, err := uc.audioRepo.Extract(ctx, task.ID, task.URL)
	metrics.StageDuration.WithLabelValues("audio").Observe(time.Since(start).Seconds())
	if err != nil {
		uc.fail(ctx, task, fmt.Errorf("audio stage failed: %w", err))
		return
	}

	uc.setProgress(ctx, task, progressTranscribe)
	start = time.Now()
	transcript, err := uc.transcriberRepo.Transcribe(ctx, audioPath)
	metrics.StageDuration.WithLabelValues("transcribe").Observe(time.Since(start).Seconds())
	if err != nil {
		uc.fail(ctx, task, fmt.Errorf("transcription stage failed: %w", err))
		return
	}
	task.Transcript = transcript

	uc.setProgress(ctx, task, progressDetect)
	start = time.Now()
	err = uc.detectSegments(ctx, task.Transcript)
	metrics.StageDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())
	if err != nil {
		uc.fail(ctx, task, fmt.Errorf("detection stage failed: %w", err))
		return
	}

	uc.finalize(ctx, task)
}

// detectSegments scores every non-empty segment, one call per segment,
// strictly in source order. A failed segment keeps a nil probability (the
// explicit "unknown" sentinel) and processing continues; a missing credential
// means no segment was ever attempted and fails the stage.
func (uc *pipelineUseCase) detectSegments(ctx context.Context, transcript *entity.Transcript) error {
	for i := range transcript.Segments {
		seg := &transcript.Segments[i]
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		prob, err := uc.detectorRepo.Detect(ctx, seg.Text)
		if err != nil {
			if errors.Is(err, repository.ErrMissingCredential) {
				return err
			}
			slog.Warn("AI detection failed for segment, continuing", "segment", i, "error", err)
			seg.AIProbability = nil
			continue
		}
		seg.AIProbability = &prob
	}
	return nil
}

func (uc *pipelineUseCase) setProgress(ctx context.Context, task *entity.Task, label string) {
	task.Status = entity.StatusProcessing
	task.Progress = label
	if err := uc.taskRepo.Update(ctx, task); err != nil {
		slog.Error("Failed to record stage transition", "task_id", task.ID, "stage", label, "error", err)
	}
	slog.Info("Stage started", "task_id", task.ID, "stage", label)
}

func (uc *pipelineUseCase) fail(ctx context.Context, task *entity.Task, stageErr error) {
	slog.Error("Task failed", "task_id", task.ID, "url", task.URL, "error", stageErr)
	now := time.Now().UTC()
	task.Status = entity.StatusError
	task.Progress = ""
	task.Error = stageErr.Error()
	task.Timestamp = &now
	metrics.TasksTotal.WithLabelValues("error").Inc()
	uc.persist(ctx, task)
}

func (uc *pipelineUseCase) finalize(ctx context.Context, task *entity.Task) {
	now := time.Now().UTC()
	task.Status = entity.StatusCompleted
	task.Progress = ""
	task.Timestamp = &now
	metrics.TasksTotal.WithLabelValues("completed").Inc()
	uc.persist(ctx, task)
	slog.Info("Task completed", "task_id", task.ID, "url", task.URL)
}

// persist mirrors the terminal task to durable storage, then makes the task
// store the last writer so polling clients always see the final value.
func (uc *pipelineUseCase) persist(ctx context.Context, task *entity.Task) {
	for _, repo := range uc.resultRepos {
		if err := repo.Save(ctx, task); err != nil {
			// The store stays authoritative; a mirror failure is logged only.
			slog.Warn("Failed to mirror task result", "task_id", task.ID, "error", err)
		}
	}
	if err := uc.taskRepo.Update(ctx, task); err != nil {
		slog.Error("Failed to update task store", "task_id", task.ID, "error", err)
	}
}
