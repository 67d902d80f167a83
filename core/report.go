package core

import (
	"context"
	"sort"

	"github.com/legalguard/piiguard/utils"
)

// Report summarizes the sensitive content of one text. It is derived fresh
// per call and never persisted; the engine keeps no memory of past inputs.
type Report struct {
	// Whether any sensitive span was found
	HasPII bool `json:"has_pii"`

	// Number of entities found
	Count int `json:"count"`

	// Distinct categories found, sorted for reproducible output
	Categories []string `json:"categories"`

	// The text with every span redacted
	SafeText string `json:"safe_text"`

	// Full entity details, sorted by position
	Entities []utils.Entity `json:"entities"`
}

// Report runs detection and redaction (with the redact strategy) over text
// and assembles the summary. Pure composition over Detect and Redact; no
// new failure modes.
func (e *Engine) Report(ctx context.Context, text string) (*Report, error) {
	entities, err := e.Detect(ctx, text)
	if err != nil {
		return nil, err
	}

	safeText, err := ApplyRedactions(text, entities, StrategyRedact)
	if err != nil {
		return nil, err
	}

	distinct := make(map[string]bool, len(entities))
	for _, entity := range entities {
		distinct[entity.Category] = true
	}
	categories := make([]string, 0, len(distinct))
	for category := range distinct {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return &Report{
		HasPII:     len(entities) > 0,
		Count:      len(entities),
		Categories: categories,
		SafeText:   safeText,
		Entities:   entities,
	}, nil
}
