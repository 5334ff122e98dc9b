package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
)

func newTask(id string) *entity.Task {
	return &entity.Task{
		ID:        id,
		URL:       "https://www.youtube.com/watch?v=" + id,
		Status:    entity.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	task := newTask("abc")
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.URL, got.URL)
	assert.Equal(t, entity.StatusQueued, got.Status)
}

func TestTaskRepo_CreateDuplicate(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTask("abc")))
	err := repo.Create(ctx, newTask("abc"))
	assert.ErrorIs(t, err, repository.ErrTaskExists)
}

func TestTaskRepo_GetUnknown(t *testing.T) {
	repo := NewTaskRepo()

	_, err := repo.Get(context.Background(), "never-issued")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepo_UpdateUnknown(t *testing.T) {
	repo := NewTaskRepo()

	err := repo.Update(context.Background(), newTask("never-issued"))
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskRepo_UpdateReplacesWholesale(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	task := newTask("abc")
	task.Status = entity.StatusProcessing
	task.Progress = "extracting audio"
	require.NoError(t, repo.Create(ctx, task))

	// An update without the progress field must drop it, not merge.
	replacement := newTask("abc")
	replacement.Status = entity.StatusCompleted
	require.NoError(t, repo.Update(ctx, replacement))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	assert.Empty(t, got.Progress)
}

func TestTaskRepo_GetReturnsPrivateCopy(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()

	prob := 0.5
	task := newTask("abc")
	task.Transcript = &entity.Transcript{
		Segments: []entity.TranscriptSegment{
			{Start: 0, End: 1, Text: "hello", AIProbability: &prob},
		},
	}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	got.Transcript.Segments[0].Text = "mutated"
	*got.Transcript.Segments[0].AIProbability = 0.99

	again, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Transcript.Segments[0].Text)
	assert.Equal(t, 0.5, *again.Transcript.Segments[0].AIProbability)
}

func TestTaskRepo_ConcurrentReadersAndWriter(t *testing.T) {
	repo := NewTaskRepo()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newTask("abc")))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			task := newTask("abc")
			task.Status = entity.StatusProcessing
			task.Progress = fmt.Sprintf("stage %d", i)
			_ = repo.Update(ctx, task)
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				got, err := repo.Get(ctx, "abc")
				assert.NoError(t, err)
				assert.Equal(t, "abc", got.ID)
			}
		}()
	}
	wg.Wait()
}
