package gptzero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/video-analysis-service/internal/repository"
)

const predictURL = "https://api.gptzero.me/v2/predict/text"

// DetectorImpl is a GPTZero client scoring one text span per request.
type DetectorImpl struct {
	apiKey string
	client *http.Client
}

// NewDetector creates a GPTZero-backed detector. An empty key is accepted
// here and rejected at call time.
func NewDetector(apiKey string) *DetectorImpl {
	return &DetectorImpl{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Detect returns the probability that text is machine-generated.
func (d *DetectorImpl) Detect(ctx context.Context, text string) (float64, error) {
	if d.apiKey == "" {
		return 0, fmt.Errorf("%w: GPTZERO_API_KEY is not set", repository.ErrMissingCredential)
	}

	payload, err := json.Marshal(map[string]string{"document": text})
	if err != nil {
		return 0, fmt.Errorf("failed to encode detection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to build detection request: %w", err)
	}
	req.Header.Set("x-api-key", d.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("detection request returned status %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Documents []struct {
			CompletelyGeneratedProb float64 `json:"completely_generated_prob"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode detection response: %w", err)
	}
	if len(out.Documents) == 0 {
		return 0, errors.New("detection response contained no documents")
	}
	return out.Documents[0].CompletelyGeneratedProb, nil
}
