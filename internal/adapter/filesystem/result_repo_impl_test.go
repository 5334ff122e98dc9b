package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/video-analysis-service/internal/entity"
)

func TestResultRepo_SaveWritesOneFilePerTask(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewResultRepo(dir)
	require.NoError(t, err)

	prob := 0.8
	now := time.Now().UTC()
	task := &entity.Task{
		ID:        "task-1",
		URL:       "https://www.youtube.com/watch?v=abc",
		Status:    entity.StatusCompleted,
		CreatedAt: now,
		Timestamp: &now,
		Transcript: &entity.Transcript{
			Text: "hello world",
			Segments: []entity.TranscriptSegment{
				{Start: 0, End: 2, Text: "hello", AIProbability: &prob},
				{Start: 2, End: 4, Text: "world", AIProbability: nil},
			},
		},
	}
	require.NoError(t, repo.Save(context.Background(), task))

	raw, err := os.ReadFile(filepath.Join(dir, "task-1.json"))
	require.NoError(t, err)

	var got entity.Task
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.URL, got.URL)
	assert.Equal(t, entity.StatusCompleted, got.Status)
	require.Len(t, got.Transcript.Segments, 2)
	assert.Equal(t, 0.8, *got.Transcript.Segments[0].AIProbability)
	// The unknown sentinel must survive the round trip as explicit null.
	assert.Nil(t, got.Transcript.Segments[1].AIProbability)
	assert.Contains(t, string(raw), `"ai_probability": null`)
}

func TestResultRepo_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewResultRepo(dir)
	require.NoError(t, err)
	ctx := context.Background()

	task := &entity.Task{ID: "task-1", URL: "https://youtu.be/abc", Status: entity.StatusError, Error: "first"}
	require.NoError(t, repo.Save(ctx, task))

	task.Error = "second"
	require.NoError(t, repo.Save(ctx, task))

	raw, err := os.ReadFile(filepath.Join(dir, "task-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "second")
	assert.NotContains(t, string(raw), "first")
}
