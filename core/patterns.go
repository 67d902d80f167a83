package core

import (
	"fmt"
	"regexp"

	"github.com/legalguard/piiguard/utils"
)

// Category labels for pattern-based detections
const (
	CategoryEmail      = "EMAIL"
	CategoryPhone      = "PHONE"
	CategorySSN        = "SSN"
	CategoryCreditCard = "CREDIT_CARD"
	CategoryFrenchSSN  = "FRENCH_SSN"
	CategoryPassport   = "PASSPORT"
)

// Person-name labels emitted by the per-language recognizers
const (
	// PersonLabelEnglish is the person-name label used by the English recognizer
	PersonLabelEnglish = "PERSON"

	// PersonLabelFrench is the person-name label used by the French recognizer
	PersonLabelFrench = "PER"
)

// Matcher is one compiled pattern detector bound to a category label.
type Matcher struct {
	// Name of the rule this matcher was compiled from
	Name string

	// Category assigned to every match
	Category string

	// Compiled pattern
	Regex *regexp.Regexp
}

// builtinRules is the default ordered rule table. Order matters: the
// aggregator resolves colliding spans in favor of whichever matcher was
// declared first, so the structural identifiers precede the loose phone
// shape.
var builtinRules = []Rule{
	{ID: "pii-email", Category: CategoryEmail, Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`},
	{ID: "pii-ssn-us", Category: CategorySSN, Pattern: `\b\d{3}-\d{2}-\d{4}\b`},
	{ID: "financial-credit-card", Category: CategoryCreditCard, Pattern: `\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`},
	{ID: "pii-ssn-fr", Category: CategoryFrenchSSN, Pattern: `\b[12]\d{12}\b`},
	{ID: "pii-passport", Category: CategoryPassport, Pattern: `\b[A-Za-z]{1,2}\d{6,9}\b`},
	{ID: "pii-phone", Category: CategoryPhone, Pattern: `(?:\+?\d{1,3}[-.\s]?)?\(?\d{3,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{1,9}`},
}

// CompileMatchers compiles an ordered rule list into matchers. Patterns are
// applied case-insensitively.
func CompileMatchers(rules []Rule) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for rule '%s': %w", rule.ID, err)
		}
		matchers = append(matchers, Matcher{
			Name:     rule.ID,
			Category: rule.Category,
			Regex:    re,
		})
	}
	return matchers, nil
}

// BuiltinMatchers returns the compiled default matcher set.
func BuiltinMatchers() []Matcher {
	matchers, err := CompileMatchers(builtinRules)
	if err != nil {
		// The builtin table is constant; a compile failure is a programming error.
		panic(fmt.Sprintf("compiling builtin patterns: %v", err))
	}
	return matchers
}

// MatchAll applies every matcher independently to text and returns the raw
// matches in matcher-declaration order, position order within a matcher.
// Matches from different matchers may overlap here; the aggregator resolves
// that. An empty or non-matching text yields an empty result.
func MatchAll(matchers []Matcher, text string) []utils.Entity {
	var matches []utils.Entity
	for _, m := range matchers {
		for _, loc := range m.Regex.FindAllStringIndex(text, -1) {
			matches = append(matches, utils.Entity{
				Text:     text[loc[0]:loc[1]],
				Category: m.Category,
				Start:    loc[0],
				End:      loc[1],
				Source:   utils.SourcePattern,
			})
		}
	}
	return matches
}
