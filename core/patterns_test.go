package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalguard/piiguard/utils"
)

func matchesFor(t *testing.T, text string) []utils.Entity {
	t.Helper()
	return MatchAll(BuiltinMatchers(), text)
}

func categoriesOf(matches []utils.Entity) []string {
	categories := make([]string, len(matches))
	for i, m := range matches {
		categories[i] = m.Category
	}
	return categories
}

func TestMatchAllEmail(t *testing.T) {
	matches := matchesFor(t, "reach me at john.smith@example.com please")

	require.Len(t, matches, 1)
	assert.Equal(t, CategoryEmail, matches[0].Category)
	assert.Equal(t, "john.smith@example.com", matches[0].Text)
	assert.Equal(t, 12, matches[0].Start)
	assert.Equal(t, 34, matches[0].End)
	assert.Equal(t, utils.SourcePattern, matches[0].Source)
}

func TestMatchAllEmailCaseInsensitive(t *testing.T) {
	matches := matchesFor(t, "JOHN.SMITH@EXAMPLE.COM")

	require.Len(t, matches, 1)
	assert.Equal(t, CategoryEmail, matches[0].Category)
	assert.Equal(t, "JOHN.SMITH@EXAMPLE.COM", matches[0].Text)
}

func TestMatchAllCreditCard(t *testing.T) {
	for _, text := range []string{
		"4111 1111 1111 1111",
		"4111-1111-1111-1111",
		"4111111111111111",
	} {
		matches := matchesFor(t, text)
		require.NotEmpty(t, matches, "no match for %q", text)
		assert.Equal(t, CategoryCreditCard, matches[0].Category, "wrong category for %q", text)
		assert.Equal(t, text, matches[0].Text)
	}
}

func TestMatchAllNationalIDs(t *testing.T) {
	matches := matchesFor(t, "ssn 555-12-3456 here")
	require.NotEmpty(t, matches)
	assert.Equal(t, CategorySSN, matches[0].Category)
	assert.Equal(t, "555-12-3456", matches[0].Text)

	matches = matchesFor(t, "insee 1850578006048 here")
	require.NotEmpty(t, matches)
	assert.Equal(t, CategoryFrenchSSN, matches[0].Category)
	assert.Equal(t, "1850578006048", matches[0].Text)

	// INSEE numbers start with 1 or 2
	matches = matchesFor(t, "insee 9850578006048 here")
	assert.NotContains(t, categoriesOf(matches), CategoryFrenchSSN)
}

func TestMatchAllPassport(t *testing.T) {
	matches := matchesFor(t, "passport AB1234567 on file")

	require.NotEmpty(t, matches)
	assert.Equal(t, CategoryPassport, matches[0].Category)
	assert.Equal(t, "AB1234567", matches[0].Text)
}

func TestMatchAllPhone(t *testing.T) {
	for _, text := range []string{
		"555-123-4567",
		"+1 555 123 4567",
		"(555) 123-4567",
	} {
		matches := matchesFor(t, text)
		require.NotEmpty(t, matches, "no match for %q", text)
		assert.Contains(t, categoriesOf(matches), CategoryPhone, "no phone match for %q", text)
	}
}

func TestMatchAllDeclarationOrder(t *testing.T) {
	// A card number also looks phone-like; MatchAll itself does not
	// coordinate matchers, but the card match must come first so the
	// aggregator's precedence rule keeps it.
	matches := matchesFor(t, "Card 4111 1111 1111 1111")

	require.NotEmpty(t, matches)
	assert.Equal(t, CategoryCreditCard, matches[0].Category)
	assert.Equal(t, "4111 1111 1111 1111", matches[0].Text)
}

func TestMatchAllEmptyText(t *testing.T) {
	assert.Empty(t, matchesFor(t, ""))
	assert.Empty(t, matchesFor(t, "nothing sensitive in here"))
}

func TestMatchAllOffsetsValid(t *testing.T) {
	text := "a.b@c.com then 555-12-3456 then AB1234567"
	for _, match := range matchesFor(t, text) {
		assert.Equal(t, text[match.Start:match.End], match.Text)
	}
}

func TestCompileMatchersRejectsBadPattern(t *testing.T) {
	_, err := CompileMatchers([]Rule{{ID: "broken", Category: "X", Pattern: "("}})
	assert.Error(t, err)
}
