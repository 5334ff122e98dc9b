package repository

import "context"

// AudioRepository extracts a normalized audio track from a video URL,
// suitable for speech transcription (fixed sample rate, mono, fixed bit
// depth).
type AudioRepository interface {
	// Extract produces the audio file for the task and returns its path.
	Extract(ctx context.Context, taskID, url string) (string, error)
}
