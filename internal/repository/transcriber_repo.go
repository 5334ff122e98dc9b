package repository

import (
	"context"

	"github.com/user/video-analysis-service/internal/entity"
)

// TranscriberRepository sends an audio file to the transcription service and
// returns the structured transcript with segment timing and speaker labels.
type TranscriberRepository interface {
	Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error)
}
