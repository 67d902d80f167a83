package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWithEntities(t *testing.T) {
	text := "Contact John Smith at john.smith@example.com"
	classifier := &fakeClassifier{code: LangEnglish}
	english := &fakeRecognizer{spans: []Span{personSpan(text, 8, "John Smith")}}
	engine := newTestEngine(t, classifier, english, &fakeRecognizer{})

	report, err := engine.Report(context.Background(), text)
	require.NoError(t, err)

	assert.True(t, report.HasPII)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, []string{CategoryEmail, PersonLabelEnglish}, report.Categories)
	assert.Equal(t, "Contact [REDACTED_PERSON] at [REDACTED_EMAIL]", report.SafeText)
	assert.Len(t, report.Entities, 2)
}

func TestReportCleanText(t *testing.T) {
	classifier := &fakeClassifier{code: LangEnglish}
	engine := newTestEngine(t, classifier, &fakeRecognizer{}, &fakeRecognizer{})

	report, err := engine.Report(context.Background(), "nothing sensitive here")
	require.NoError(t, err)

	assert.False(t, report.HasPII)
	assert.Zero(t, report.Count)
	assert.Empty(t, report.Categories)
	assert.Equal(t, "nothing sensitive here", report.SafeText)
	assert.Empty(t, report.Entities)
}

func TestReportDistinctCategories(t *testing.T) {
	classifier := &fakeClassifier{code: LangEnglish}
	engine := newTestEngine(t, classifier, &fakeRecognizer{}, &fakeRecognizer{})

	report, err := engine.Report(context.Background(), "a.b@c.com and x.y@z.org")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Count)
	assert.Equal(t, []string{CategoryEmail}, report.Categories)
}
