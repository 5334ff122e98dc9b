package repository

import "context"

// CaptureRepository drives a browser to screenshot the playing video.
type CaptureRepository interface {
	// Capture navigates to url, waits for the player to become ready within
	// bounded timeouts, and writes a screenshot for the task. It returns the
	// image path.
	Capture(ctx context.Context, taskID, url string) (string, error)
}
