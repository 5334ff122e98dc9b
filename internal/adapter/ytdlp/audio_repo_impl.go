package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Audio is normalized for speech transcription: 16 kHz, mono, 16-bit PCM WAV.
const (
	sampleRate = 16000
	channels   = 1
)

// AudioRepoImpl extracts audio by shelling out to the yt-dlp/ffmpeg
// toolchain. Transcoding runs in the subprocess, so it never blocks the
// service's own goroutines.
type AudioRepoImpl struct {
	dir    string
	binary string
}

// NewAudioRepo creates an audio extractor writing into dir.
func NewAudioRepo(dir string) (*AudioRepoImpl, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	return &AudioRepoImpl{dir: dir, binary: "yt-dlp"}, nil
}

// Extract downloads the best audio track for url and transcodes it to the
// normalized WAV format, returning the output path.
func (r *AudioRepoImpl) Extract(ctx context.Context, taskID, url string) (string, error) {
	outPath := filepath.Join(r.dir, taskID+".wav")

	args := []string{
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "wav",
		"--postprocessor-args", fmt.Sprintf("ffmpeg:-ar %d -ac %d -sample_fmt s16", sampleRate, channels),
		"--output", filepath.Join(r.dir, taskID) + ".%(ext)s",
		url,
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Info("Extracting audio", "task_id", taskID, "url", url)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("audio extraction failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("audio extraction produced no output: %w", err)
	}

	slog.Info("Audio extracted", "task_id", taskID, "path", outPath)
	return outPath, nil
}
