package core

import (
	"context"
	"strings"

	"github.com/legalguard/piiguard/utils"
)

// Strategy selects how detected spans are rewritten.
type Strategy string

const (
	// StrategyRedact replaces each span with a [REDACTED_<CATEGORY>] marker
	StrategyRedact Strategy = "redact"

	// StrategyMask partially discloses each span (category-aware)
	StrategyMask Strategy = "mask"

	// StrategyBlock aborts with a BlockedContentError instead of rewriting
	StrategyBlock Strategy = "block"
)

// ApplyRedactions rewrites text according to the strategy. Entities must be
// sorted ascending by start and pairwise disjoint (the Detect
// postcondition). Spans are replaced back-to-front so earlier offsets stay
// valid while later spans are rewritten; the input string is never mutated.
//
// Under StrategyBlock no rewriting happens: the call fails with a
// *BlockedContentError identifying the first entity in processing order.
// An unrecognized strategy falls back to StrategyRedact.
func ApplyRedactions(text string, entities []utils.Entity, strategy Strategy) (string, error) {
	redacted := text
	for i := len(entities) - 1; i >= 0; i-- {
		replacement, err := replacementFor(entities[i], strategy)
		if err != nil {
			return "", err
		}
		redacted = redacted[:entities[i].Start] + replacement + redacted[entities[i].End:]
	}
	return redacted, nil
}

func replacementFor(entity utils.Entity, strategy Strategy) (string, error) {
	switch strategy {
	case StrategyMask:
		return maskValue(entity), nil
	case StrategyBlock:
		return "", &BlockedContentError{Category: entity.Category, Text: entity.Text}
	default:
		// StrategyRedact plus anything unrecognized: the safest default.
		return "[REDACTED_" + entity.Category + "]", nil
	}
}

// maskValue produces a partial disclosure of the matched value: emails keep
// two characters of the local part and the full domain, phones keep the
// last four digits, everything else collapses to its category.
func maskValue(entity utils.Entity) string {
	switch entity.Category {
	case CategoryEmail:
		if at := strings.Index(entity.Text, "@"); at >= 0 {
			local := entity.Text[:at]
			if len(local) > 2 {
				local = local[:2]
			}
			return local + "***@" + entity.Text[at+1:]
		}
		return "***" + entity.Category + "***"
	case CategoryPhone:
		if len(entity.Text) > 4 {
			return "***-***-" + entity.Text[len(entity.Text)-4:]
		}
		return "***"
	default:
		return "***" + entity.Category + "***"
	}
}

// Redact detects sensitive spans in text and rewrites them with the given
// strategy, returning the rewritten text together with everything detected
// against the original offsets.
func (e *Engine) Redact(ctx context.Context, text string, strategy Strategy) (string, []utils.Entity, error) {
	entities, err := e.Detect(ctx, text)
	if err != nil {
		return "", nil, err
	}

	redacted, err := ApplyRedactions(text, entities, strategy)
	if err != nil {
		if e.audit {
			logBlocked(err)
		}
		return "", entities, err
	}

	return redacted, entities, nil
}
