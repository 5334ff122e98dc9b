package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/video-analysis-service/internal/adapter/memory"
	"github.com/user/video-analysis-service/internal/entity"
)

type stubProbe struct {
	err error
}

func (s *stubProbe) Probe(ctx context.Context, rawURL string) error {
	return s.err
}

// stubPipeline records Run calls; an optional gate keeps the pipeline parked
// so tests can observe the task in its queued state.
type stubPipeline struct {
	mu   sync.Mutex
	ran  []string
	gate chan struct{}
	done chan struct{}
}

func newStubPipeline() *stubPipeline {
	return &stubPipeline{done: make(chan struct{}, 16)}
}

func (s *stubPipeline) Run(ctx context.Context, taskID string) {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	s.ran = append(s.ran, taskID)
	s.mu.Unlock()
	s.done <- struct{}{}
}

// countingStore wraps the in-memory store to observe Create calls.
type countingStore struct {
	*memory.TaskRepoImpl
	creates int32
}

func (c *countingStore) Create(ctx context.Context, task *entity.Task) error {
	atomic.AddInt32(&c.creates, 1)
	return c.TaskRepoImpl.Create(ctx, task)
}

func TestTaskManager_SubmitRejectsUnsupportedURL(t *testing.T) {
	store := &countingStore{TaskRepoImpl: memory.NewTaskRepo()}
	pipe := newStubPipeline()
	tm := NewTaskManager(store, &stubProbe{}, pipe)

	_, err := tm.Submit(context.Background(), "https://vimeo.com/123456")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	assert.Zero(t, atomic.LoadInt32(&store.creates))
}

func TestTaskManager_SubmitRejectsUnreachableURL(t *testing.T) {
	store := &countingStore{TaskRepoImpl: memory.NewTaskRepo()}
	pipe := newStubPipeline()
	tm := NewTaskManager(store, &stubProbe{err: context.DeadlineExceeded}, pipe)

	_, err := tm.Submit(context.Background(), "https://www.youtube.com/watch?v=abc")
	assert.ErrorIs(t, err, ErrUnreachableURL)
	assert.Zero(t, atomic.LoadInt32(&store.creates))
}

func TestTaskManager_SubmitCreatesQueuedTaskBeforePipelineRuns(t *testing.T) {
	store := memory.NewTaskRepo()
	pipe := newStubPipeline()
	pipe.gate = make(chan struct{})
	tm := NewTaskManager(store, &stubProbe{}, pipe)

	id, err := tm.Submit(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// The pipeline is still parked; polling right away must see queued.
	got, err := tm.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQueued, got.Status)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", got.URL)

	close(pipe.gate)
	select {
	case <-pipe.done:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never ran")
	}
	pipe.mu.Lock()
	defer pipe.mu.Unlock()
	assert.Equal(t, []string{id}, pipe.ran)
}

func TestTaskManager_SubmitIssuesDistinctIDs(t *testing.T) {
	store := memory.NewTaskRepo()
	pipe := newStubPipeline()
	tm := NewTaskManager(store, &stubProbe{}, pipe)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := tm.Submit(ctx, "https://youtu.be/abc")
		require.NoError(t, err)
		assert.False(t, seen[id], "task id %s issued twice", id)
		seen[id] = true
	}
}

func TestTaskManager_ConcurrentSubmissionsDoNotCrossContaminate(t *testing.T) {
	store := memory.NewTaskRepo()
	pipe := newStubPipeline()
	tm := NewTaskManager(store, &stubProbe{}, pipe)
	ctx := context.Background()

	urls := []string{
		"https://www.youtube.com/watch?v=first",
		"https://www.youtube.com/watch?v=second",
	}
	ids := make([]string, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			id, err := tm.Submit(ctx, u)
			assert.NoError(t, err)
			ids[i] = id
		}(i, u)
	}
	wg.Wait()

	for i, u := range urls {
		got, err := tm.Get(ctx, ids[i])
		require.NoError(t, err)
		assert.Equal(t, u, got.URL)
	}
}
