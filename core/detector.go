package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/legalguard/piiguard/utils"
)

// Supported language codes for detection dispatch
const (
	LangEnglish = "en"
	LangFrench  = "fr"
)

// LanguageClassifier classifies the language of a text. Implementations are
// typically backed by an external model; Classify is a suspension point and
// must honor ctx.
type LanguageClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Span is one labeled span returned by a named-entity recognizer. Offsets
// are half-open byte offsets into the recognized text.
type Span struct {
	Label string
	Start int
	End   int
	Text  string
}

// Recognizer labels spans of text with semantic categories. Implementations
// wrap one external model per language; Recognize is a suspension point and
// must honor ctx.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// LanguageSupport binds a recognizer to the person-name label it emits.
type LanguageSupport struct {
	Recognizer  Recognizer
	PersonLabel string
}

// EngineConfig holds construction-time configuration for an Engine.
type EngineConfig struct {
	// RuleSet supplies the pattern matchers; nil selects the built-in table.
	RuleSet *RuleSet

	// DefaultLanguage receives dispatch for any classifier output that is
	// not a registered language. Empty selects French.
	DefaultLanguage string

	// DisableAudit turns off audit logging of detection events.
	DisableAudit bool
}

// Engine is the bilingual PII detection and redaction engine. It is
// read-only after construction and safe for concurrent use provided the
// injected adapters are; every call is a pure function of its input text.
type Engine struct {
	classifier  LanguageClassifier
	languages   map[string]LanguageSupport
	matchers    []Matcher
	defaultLang string
	audit       bool
}

// NewEngine constructs an engine from a classifier and per-language
// recognizer bindings. The returned engine holds the only process-wide
// state (the adapter handles) and never mutates it.
func NewEngine(classifier LanguageClassifier, languages map[string]LanguageSupport, config EngineConfig) (*Engine, error) {
	if classifier == nil {
		return nil, fmt.Errorf("engine requires a language classifier")
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("engine requires at least one language recognizer")
	}
	for code, support := range languages {
		if support.Recognizer == nil {
			return nil, fmt.Errorf("language %q has no recognizer", code)
		}
		if support.PersonLabel == "" {
			return nil, fmt.Errorf("language %q has no person label", code)
		}
	}

	defaultLang := config.DefaultLanguage
	if defaultLang == "" {
		defaultLang = LangFrench
	}
	if _, ok := languages[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no recognizer", defaultLang)
	}

	ruleSet := config.RuleSet
	if ruleSet == nil {
		ruleSet = DefaultRuleSet()
	}
	matchers, err := CompileMatchers(ruleSet.Rules)
	if err != nil {
		return nil, err
	}

	return &Engine{
		classifier:  classifier,
		languages:   languages,
		matchers:    matchers,
		defaultLang: defaultLang,
		audit:       !config.DisableAudit,
	}, nil
}

// Detect locates sensitive spans in text. The returned entities are sorted
// ascending by start, pairwise disjoint, and deduplicated. An empty or
// whitespace-only text short-circuits to an empty result without touching
// the classifier or recognizer. Adapter failures surface as
// *DetectionUnavailableError, never as an empty result.
func (e *Engine) Detect(ctx context.Context, text string) ([]utils.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []utils.Entity{}, nil
	}

	lang, err := e.classifier.Classify(ctx, text)
	if err != nil {
		return nil, &DetectionUnavailableError{Stage: "language classification", Err: err}
	}

	// Unknown codes dispatch to the default branch: the code is a dispatch
	// hint, not a correctness-critical value.
	support, ok := e.languages[lang]
	if !ok {
		lang = e.defaultLang
		support = e.languages[lang]
	}

	spans, err := support.Recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, &DetectionUnavailableError{Stage: "entity recognition", Err: err}
	}

	// Recognizer output first: keep person-name spans long enough to not be
	// partial words.
	var accepted []utils.Entity
	for _, span := range spans {
		if span.Label != support.PersonLabel {
			continue
		}
		trimmed := strings.TrimSpace(span.Text)
		if len(trimmed) <= 2 {
			continue
		}
		accepted = append(accepted, utils.Entity{
			Text:     span.Text,
			Category: span.Label,
			Start:    span.Start,
			End:      span.End,
			Source:   utils.SourceRecognizer,
			Language: lang,
		})
	}

	// Pattern matches second: a candidate colliding with anything already
	// accepted is discarded, so recognizer spans and earlier-declared
	// matchers take precedence.
	for _, match := range MatchAll(e.matchers, text) {
		if overlapsAny(match, accepted) {
			continue
		}
		match.Language = lang
		accepted = append(accepted, match)
	}

	accepted = dedupe(accepted)

	sort.SliceStable(accepted, func(i, j int) bool {
		if accepted[i].Start != accepted[j].Start {
			return accepted[i].Start < accepted[j].Start
		}
		if accepted[i].End != accepted[j].End {
			return accepted[i].End < accepted[j].End
		}
		if accepted[i].Source != accepted[j].Source {
			return accepted[i].Source < accepted[j].Source
		}
		return accepted[i].Category < accepted[j].Category
	})

	if e.audit {
		logDetection(lang, accepted)
	}

	return accepted, nil
}

// Contains reports whether text contains any detected sensitive span.
func (e *Engine) Contains(ctx context.Context, text string) (bool, error) {
	entities, err := e.Detect(ctx, text)
	if err != nil {
		return false, err
	}
	return len(entities) > 0, nil
}

func overlapsAny(candidate utils.Entity, entities []utils.Entity) bool {
	for _, existing := range entities {
		if candidate.Overlaps(existing) {
			return true
		}
	}
	return false
}

type spanKey struct {
	text  string
	start int
	end   int
}

func dedupe(entities []utils.Entity) []utils.Entity {
	seen := make(map[spanKey]bool, len(entities))
	unique := entities[:0]
	for _, entity := range entities {
		key := spanKey{entity.Text, entity.Start, entity.End}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, entity)
	}
	return unique
}
