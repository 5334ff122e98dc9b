package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/user/video-analysis-service/internal/entity"
	"github.com/user/video-analysis-service/internal/repository"
)

const (
	uploadURL     = "https://api.assemblyai.com/v2/upload"
	transcriptURL = "https://api.assemblyai.com/v2/transcript"
	pollInterval  = 3 * time.Second
)

// TranscriberImpl is an AssemblyAI client. The API contract is consumed as
// opaque JSON: upload the file, create a transcript job, poll until it
// reaches a terminal status.
type TranscriberImpl struct {
	apiKey string
	client *http.Client
}

// NewTranscriber creates an AssemblyAI-backed transcriber. An empty key is
// accepted here and rejected at call time, so the service starts without
// transcription configured.
func NewTranscriber(apiKey string) *TranscriberImpl {
	return &TranscriberImpl{
		apiKey: apiKey,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	Punctuate     bool   `json:"punctuate"`
	FormatText    bool   `json:"format_text"`
}

type utterance struct {
	Start   int64  `json:"start"` // milliseconds
	End     int64  `json:"end"`
	Text    string `json:"text"`
	Speaker string `json:"speaker"`
}

type transcriptResponse struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Text          string      `json:"text"`
	LanguageCode  string      `json:"language_code"`
	AudioDuration float64     `json:"audio_duration"` // seconds
	Utterances    []utterance `json:"utterances"`
	Error         string      `json:"error"`
}

// Transcribe uploads the audio file, requests a speaker-labelled transcript
// and polls until the job finishes.
func (t *TranscriberImpl) Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("%w: ASSEMBLYAI_API_KEY is not set", repository.ErrMissingCredential)
	}

	audioURL, err := t.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	jobID, err := t.createTranscript(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	slog.Info("Transcription job created", "job_id", jobID)

	return t.poll(ctx, jobID)
}

func (t *TranscriberImpl) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, f)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("authorization", t.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("audio upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("audio upload returned status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return out.UploadURL, nil
}

func (t *TranscriberImpl) createTranscript(ctx context.Context, audioURL string) (string, error) {
	payload, err := json.Marshal(transcriptRequest{
		AudioURL:      audioURL,
		SpeakerLabels: true,
		Punctuate:     true,
		FormatText:    true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, transcriptURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build transcript request: %w", err)
	}
	req.Header.Set("authorization", t.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("transcript request returned status %d: %s", resp.StatusCode, body)
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode transcript response: %w", err)
	}
	return out.ID, nil
}

func (t *TranscriberImpl) poll(ctx context.Context, jobID string) (*entity.Transcript, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		tr, err := t.fetch(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch tr.Status {
		case "completed":
			return toTranscript(tr), nil
		case "error":
			return nil, fmt.Errorf("transcription failed: %s", tr.Error)
		}
	}
}

func (t *TranscriberImpl) fetch(ctx context.Context, jobID string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transcriptURL+"/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poll request: %w", err)
	}
	req.Header.Set("authorization", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript poll failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcript poll returned status %d: %s", resp.StatusCode, body)
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode poll response: %w", err)
	}
	return &out, nil
}

func toTranscript(tr *transcriptResponse) *entity.Transcript {
	transcript := &entity.Transcript{
		Text:     tr.Text,
		Language: tr.LanguageCode,
	}

	if len(tr.Utterances) == 0 {
		// No diarized utterances; fall back to one segment spanning the file.
		if tr.Text != "" {
			transcript.Segments = []entity.TranscriptSegment{{
				Start: 0,
				End:   tr.AudioDuration,
				Text:  tr.Text,
			}}
		}
		return transcript
	}

	transcript.Segments = make([]entity.TranscriptSegment, 0, len(tr.Utterances))
	for _, u := range tr.Utterances {
		transcript.Segments = append(transcript.Segments, entity.TranscriptSegment{
			Start:   float64(u.Start) / 1000,
			End:     float64(u.End) / 1000,
			Text:    u.Text,
			Speaker: u.Speaker,
		})
	}
	return transcript
}
