package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RuleSetMetadata contains information about a rule set
type RuleSetMetadata struct {
	// Version of the rule set
	Version string `yaml:"version"`

	// When the rule set was created
	CreatedAt time.Time `yaml:"created_at"`

	// Last modification time
	UpdatedAt time.Time `yaml:"updated_at"`

	// Description of the rule set
	Description string `yaml:"description"`

	// Author of the rule set
	Author string `yaml:"author"`

	// Hash of the file content for integrity verification
	Hash string `yaml:"hash,omitempty"`
}

// Rule defines one pattern detector: a regex bound to a category label.
type Rule struct {
	// Unique identifier for the rule
	ID string `yaml:"id"`

	// Category assigned to matches of this rule
	Category string `yaml:"category"`

	// Regex pattern, applied case-insensitively
	Pattern string `yaml:"pattern"`

	// Description of the rule
	Description string `yaml:"description,omitempty"`
}

// RuleSet defines an ordered collection of pattern rules. Order is
// significant: earlier rules win overlap resolution against later ones.
type RuleSet struct {
	// Metadata about the rule set
	Metadata RuleSetMetadata `yaml:"metadata"`

	// Rules in declaration order
	Rules []Rule `yaml:"rules"`
}

// DefaultRuleSet returns the built-in bilingual rule table as a RuleSet.
func DefaultRuleSet() *RuleSet {
	rules := make([]Rule, len(builtinRules))
	copy(rules, builtinRules)
	return &RuleSet{
		Metadata: RuleSetMetadata{
			Version:     "1.0.0",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
			Description: "Default high-confidence personal identifier patterns",
			Author:      "piiguard",
		},
		Rules: rules,
	}
}

// LoadRuleSet reads a YAML rule-set file and unmarshals it into a RuleSet.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set file: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}

	if err := validateRuleSet(&rs); err != nil {
		return nil, fmt.Errorf("invalid rule set: %w", err)
	}

	// Record a content hash for integrity checking
	rs.Metadata.Hash = calculateRuleSetHash(data)

	// Ensure all rules have IDs
	for i := range rs.Rules {
		if rs.Rules[i].ID == "" {
			rs.Rules[i].ID = fmt.Sprintf("rule-%d", i+1)
		}
	}

	return &rs, nil
}

// SaveRuleSet serializes a rule set to YAML and writes it to disk.
func SaveRuleSet(rs *RuleSet, path string) error {
	rs.Metadata.UpdatedAt = time.Now()

	data, err := yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to serialize rule set: %w", err)
	}

	rs.Metadata.Hash = calculateRuleSetHash(data)

	// Re-serialize with the updated hash
	data, err = yaml.Marshal(rs)
	if err != nil {
		return fmt.Errorf("failed to re-serialize rule set with hash: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rule set file: %w", err)
	}

	return nil
}

// validateRuleSet checks that every rule is complete and compilable.
func validateRuleSet(rs *RuleSet) error {
	for i, rule := range rs.Rules {
		if rule.Category == "" {
			return fmt.Errorf("rule %d has no category", i)
		}

		if rule.Pattern == "" {
			return fmt.Errorf("rule %d has no pattern", i)
		}
	}

	// Compile up front so a bad pattern fails at load time, not scan time
	if _, err := CompileMatchers(rs.Rules); err != nil {
		return err
	}

	return nil
}

// calculateRuleSetHash generates a hash of the file content for integrity checking
func calculateRuleSetHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RuleSetBuilder provides a fluent interface for creating rule sets
type RuleSetBuilder struct {
	ruleSet *RuleSet
}

// NewRuleSetBuilder creates a new rule set builder
func NewRuleSetBuilder() *RuleSetBuilder {
	return &RuleSetBuilder{
		ruleSet: &RuleSet{
			Metadata: RuleSetMetadata{
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			Rules: []Rule{},
		},
	}
}

// WithMetadata sets the rule set metadata
func (b *RuleSetBuilder) WithMetadata(version, description, author string) *RuleSetBuilder {
	b.ruleSet.Metadata.Version = version
	b.ruleSet.Metadata.Description = description
	b.ruleSet.Metadata.Author = author
	return b
}

// WithDefaults prepends the built-in rule table
func (b *RuleSetBuilder) WithDefaults() *RuleSetBuilder {
	b.ruleSet.Rules = append(append([]Rule{}, builtinRules...), b.ruleSet.Rules...)
	return b
}

// AddRule appends a rule to the set
func (b *RuleSetBuilder) AddRule(id, category, pattern string) *RuleSetBuilder {
	b.ruleSet.Rules = append(b.ruleSet.Rules, Rule{
		ID:       id,
		Category: category,
		Pattern:  pattern,
	})
	return b
}

// AddRuleWithDescription appends a rule with a human-readable description
func (b *RuleSetBuilder) AddRuleWithDescription(id, category, pattern, description string) *RuleSetBuilder {
	b.ruleSet.Rules = append(b.ruleSet.Rules, Rule{
		ID:          id,
		Category:    category,
		Pattern:     pattern,
		Description: description,
	})
	return b
}

// Build validates and returns the rule set
func (b *RuleSetBuilder) Build() (*RuleSet, error) {
	if err := validateRuleSet(b.ruleSet); err != nil {
		return nil, err
	}
	return b.ruleSet, nil
}
