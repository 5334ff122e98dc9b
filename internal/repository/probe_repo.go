package repository

import "context"

// ProbeRepository performs a best-effort reachability check against the video
// platform before a task is accepted. It is not a guarantee the video exists,
// only that the platform answers at all.
type ProbeRepository interface {
	Probe(ctx context.Context, rawURL string) error
}
