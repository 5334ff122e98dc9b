package httpprobe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProbeRepoImpl checks reachability with a single HEAD request. Any HTTP
// response at all counts as reachable; only transport-level failures reject
// the submission.
type ProbeRepoImpl struct {
	client *http.Client
}

// NewProbeRepo creates a reachability prober with the given request timeout.
func NewProbeRepo(timeout time.Duration) *ProbeRepoImpl {
	return &ProbeRepoImpl{client: &http.Client{Timeout: timeout}}
}

// Probe issues a HEAD request against rawURL, defaulting to https when the
// submitted URL carries no scheme.
func (r *ProbeRepoImpl) Probe(ctx context.Context, rawURL string) error {
	target := rawURL
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	resp.Body.Close()
	return nil
}
