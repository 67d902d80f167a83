package piiguard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalguard/piiguard/core"
	"github.com/legalguard/piiguard/llm"
)

func newTestGuard(t *testing.T, classifier core.LanguageClassifier, english, french core.Recognizer) *Guard {
	t.Helper()

	guard, err := NewBilingual(classifier, english, french, core.EngineConfig{DisableAudit: true})
	require.NoError(t, err)
	return guard
}

func TestGuardEnglishScenario(t *testing.T) {
	text := "Contact John Smith at john.smith@example.com"

	guard := newTestGuard(t,
		&llm.StaticClassifier{Code: core.LangEnglish},
		&llm.StaticRecognizer{Spans: []core.Span{
			{Label: core.PersonLabelEnglish, Start: 8, End: 18, Text: "John Smith"},
		}},
		&llm.StaticRecognizer{},
	)

	entities, err := guard.DetectPII(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, core.PersonLabelEnglish, entities[0].Category)
	assert.Equal(t, core.CategoryEmail, entities[1].Category)

	redacted, _, err := guard.RedactPII(context.Background(), text, core.StrategyRedact)
	require.NoError(t, err)
	assert.Equal(t, "Contact [REDACTED_PERSON] at [REDACTED_EMAIL]", redacted)

	hasPII, err := guard.ContainsPII(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, hasPII)
}

func TestGuardFrenchScenario(t *testing.T) {
	text := "Contactez Jean Dupont au +33 555 123 4567"

	french := &llm.StaticRecognizer{Spans: []core.Span{
		{Label: core.PersonLabelFrench, Start: 10, End: 21, Text: "Jean Dupont"},
	}}

	guard := newTestGuard(t, &llm.StaticClassifier{Code: core.LangFrench}, &llm.StaticRecognizer{}, french)

	entities, err := guard.DetectPII(context.Background(), text)
	require.NoError(t, err)

	categories := make([]string, 0, len(entities))
	for _, entity := range entities {
		categories = append(categories, entity.Category)
	}
	assert.Contains(t, categories, core.PersonLabelFrench)
	assert.Contains(t, categories, core.CategoryPhone)
}

func TestGuardClassifierFailureSurfaces(t *testing.T) {
	guard := newTestGuard(t,
		&llm.StaticClassifier{Err: errors.New("model server down")},
		&llm.StaticRecognizer{},
		&llm.StaticRecognizer{},
	)

	_, err := guard.DetectPII(context.Background(), "Contact John Smith")
	require.Error(t, err)
	assert.True(t, core.IsDetectionUnavailable(err))

	_, _, err = guard.RedactPII(context.Background(), "Contact John Smith", core.StrategyRedact)
	assert.True(t, core.IsDetectionUnavailable(err))

	_, err = guard.ContainsPII(context.Background(), "Contact John Smith")
	assert.True(t, core.IsDetectionUnavailable(err))

	_, err = guard.GetPIIReport(context.Background(), "Contact John Smith")
	assert.True(t, core.IsDetectionUnavailable(err))
}

func TestGuardBlockStrategy(t *testing.T) {
	guard := newTestGuard(t,
		&llm.StaticClassifier{Code: core.LangEnglish},
		&llm.StaticRecognizer{},
		&llm.StaticRecognizer{},
	)

	_, _, err := guard.RedactPII(context.Background(), "SSN is 555-12-3456", core.StrategyBlock)
	require.Error(t, err)

	var blocked *core.BlockedContentError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, core.CategorySSN, blocked.Category)
}

func TestGuardReport(t *testing.T) {
	guard := newTestGuard(t,
		&llm.StaticClassifier{Code: core.LangEnglish},
		&llm.StaticRecognizer{},
		&llm.StaticRecognizer{},
	)

	report, err := guard.GetPIIReport(context.Background(), "card 4111 1111 1111 1111")
	require.NoError(t, err)
	assert.True(t, report.HasPII)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, []string{core.CategoryCreditCard}, report.Categories)
	assert.Equal(t, "card [REDACTED_CREDIT_CARD]", report.SafeText)

	clean, err := guard.GetPIIReport(context.Background(), "nothing sensitive here")
	require.NoError(t, err)
	assert.False(t, clean.HasPII)
	assert.Zero(t, clean.Count)
	assert.Equal(t, "nothing sensitive here", clean.SafeText)
}

func TestGuardCleanAndEmptyText(t *testing.T) {
	classifier := &llm.StaticClassifier{Err: errors.New("should not be called")}
	guard := newTestGuard(t, classifier, &llm.StaticRecognizer{}, &llm.StaticRecognizer{})

	// Blank input never reaches the classifier
	for _, text := range []string{"", "   ", "\n\t "} {
		entities, err := guard.DetectPII(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, entities)

		hasPII, err := guard.ContainsPII(context.Background(), text)
		require.NoError(t, err)
		assert.False(t, hasPII)

		redacted, _, err := guard.RedactPII(context.Background(), text, core.StrategyRedact)
		require.NoError(t, err)
		assert.Equal(t, text, redacted)
	}
}
