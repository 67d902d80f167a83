package llm

import (
	"context"

	"github.com/legalguard/piiguard/core"
)

// StaticClassifier always answers with a fixed language code (or error).
// Useful in tests and in pattern-only deployments with no model available.
type StaticClassifier struct {
	Code string
	Err  error
}

func (c *StaticClassifier) Classify(ctx context.Context, text string) (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	return c.Code, nil
}

// StaticRecognizer returns a fixed span list (or error) regardless of input.
// A zero StaticRecognizer recognizes nothing, which turns the engine into a
// pattern-only detector.
type StaticRecognizer struct {
	Spans []core.Span
	Err   error
}

func (r *StaticRecognizer) Recognize(ctx context.Context, text string) ([]core.Span, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Spans, nil
}
