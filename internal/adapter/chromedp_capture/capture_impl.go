package chromedp_capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/user/video-analysis-service/internal/repository"
)

// Screenshots use a fixed viewport so results are comparable across tasks.
const (
	viewportWidth  = 1280
	viewportHeight = 720
)

type ChromedpCapture struct {
	allocatorPool *sync.Pool
	dir           string
	navTimeout    time.Duration
	readyTimeout  time.Duration
}

// NewChromedpCapture creates a screenshot implementation backed by a headless
// Chrome instance per capture, drawing exec allocators from a pool.
func NewChromedpCapture(dir string, navTimeout, readyTimeout time.Duration) (repository.CaptureRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
				chromedp.Flag("mute-audio", true),
				chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	return &ChromedpCapture{
		allocatorPool: pool,
		dir:           dir,
		navTimeout:    navTimeout,
		readyTimeout:  readyTimeout,
	}, nil
}

// Capture loads the video page, waits for the player to appear, starts
// playback and writes a full-viewport screenshot for the task.
func (c *ChromedpCapture) Capture(ctx context.Context, taskID, url string) (string, error) {
	allocCtx := c.allocatorPool.Get().(context.Context)
	defer c.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Navigation gets its own bounded wait, separate from player readiness.
	navCtx, cancelNav := context.WithTimeout(taskCtx, c.navTimeout)
	defer cancelNav()
	err := chromedp.Run(navCtx,
		emulation.SetDeviceMetricsOverride(viewportWidth, viewportHeight, 1, false),
		chromedp.Navigate(url),
	)
	if err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: navigating to %s", repository.ErrCaptureTimeout, url)
		}
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	readyCtx, cancelReady := context.WithTimeout(taskCtx, c.readyTimeout)
	defer cancelReady()
	err = chromedp.Run(readyCtx,
		chromedp.WaitVisible("video", chromedp.ByQuery),
		chromedp.Evaluate(`document.querySelector("video").play()`, nil),
	)
	if err != nil {
		if errors.Is(readyCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: waiting for the video player", repository.ErrCaptureTimeout)
		}
		return "", fmt.Errorf("video player not ready: %w", err)
	}

	var buf []byte
	shotCtx, cancelShot := context.WithTimeout(taskCtx, c.navTimeout)
	defer cancelShot()
	if err := chromedp.Run(shotCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return "", fmt.Errorf("screenshot capture failed: %w", err)
	}

	path := filepath.Join(c.dir, taskID+".png")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	slog.Info("Screenshot captured", "task_id", taskID, "path", path)
	return path, nil
}
