package repository

import "context"

// DetectorRepository estimates how likely a span of text is machine-generated.
type DetectorRepository interface {
	// Detect returns a probability in [0, 1] for the given text.
	Detect(ctx context.Context, text string) (float64, error)
}
