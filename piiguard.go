// Package piiguard is a bilingual (English/French) sensitive-information
// scanning and redaction engine. It locates spans that identify a natural
// person (names, emails, phone numbers, national IDs, payment numbers,
// passport numbers) and rewrites them according to a configurable strategy.
package piiguard

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/legalguard/piiguard/core"
	"github.com/legalguard/piiguard/llm"
	"github.com/legalguard/piiguard/utils"
)

// Guard exposes the engine's operations. Construct one at startup and share
// it; it is read-only after construction and safe for concurrent use as
// long as the injected adapters are.
type Guard struct {
	engine *core.Engine
}

// New builds a Guard from a language classifier, per-language recognizer
// bindings, and engine configuration.
func New(classifier core.LanguageClassifier, languages map[string]core.LanguageSupport, config core.EngineConfig) (*Guard, error) {
	engine, err := core.NewEngine(classifier, languages, config)
	if err != nil {
		return nil, err
	}
	return &Guard{engine: engine}, nil
}

// NewBilingual builds a Guard with the standard English/French binding:
// the English recognizer labels person names "PERSON", the French one "PER".
func NewBilingual(classifier core.LanguageClassifier, english, french core.Recognizer, config core.EngineConfig) (*Guard, error) {
	return New(classifier, map[string]core.LanguageSupport{
		core.LangEnglish: {Recognizer: english, PersonLabel: core.PersonLabelEnglish},
		core.LangFrench:  {Recognizer: french, PersonLabel: core.PersonLabelFrench},
	}, config)
}

// NewFromEnvironment wires the production adapters from the environment:
// the language classifier from the discovered MCP model server, the
// per-language recognizers from the analyzer service at PII_ANALYZER_URL,
// and an optional custom rule set from the YAML file at PIIGUARD_RULES.
func NewFromEnvironment() (*Guard, error) {
	classifier, err := llm.NewMCPClassifier("", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize language classifier: %w", err)
	}

	analyzerURL := os.Getenv("PII_ANALYZER_URL")
	if analyzerURL == "" {
		return nil, fmt.Errorf("PII_ANALYZER_URL is not set")
	}

	config := core.EngineConfig{}
	if rulesPath := os.Getenv("PIIGUARD_RULES"); rulesPath != "" {
		ruleSet, err := core.LoadRuleSet(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set from %s: %w", rulesPath, err)
		}
		config.RuleSet = ruleSet
	}

	english := llm.NewHTTPRecognizer(analyzerURL, core.LangEnglish, 10*time.Second)
	french := llm.NewHTTPRecognizer(analyzerURL, core.LangFrench, 10*time.Second)

	return NewBilingual(classifier, english, french, config)
}

// DetectPII returns the sensitive spans of text, sorted by position,
// pairwise disjoint and deduplicated.
func (g *Guard) DetectPII(ctx context.Context, text string) ([]utils.Entity, error) {
	return g.engine.Detect(ctx, text)
}

// RedactPII detects sensitive spans and rewrites them with the given
// strategy, returning the rewritten text and the detected entities with
// offsets into the original text. Under core.StrategyBlock the error is a
// *core.BlockedContentError when anything was detected.
func (g *Guard) RedactPII(ctx context.Context, text string, strategy core.Strategy) (string, []utils.Entity, error) {
	return g.engine.Redact(ctx, text, strategy)
}

// ContainsPII reports whether text contains any sensitive span.
func (g *Guard) ContainsPII(ctx context.Context, text string) (bool, error) {
	return g.engine.Contains(ctx, text)
}

// GetPIIReport returns the full summary for text: has-PII flag, counts,
// distinct categories, safe text and entity details.
func (g *Guard) GetPIIReport(ctx context.Context, text string) (*core.Report, error) {
	return g.engine.Report(ctx, text)
}
