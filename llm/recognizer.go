package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/legalguard/piiguard/core"
)

// HTTPRecognizer calls a named-entity analyzer service (Presidio-style API)
// for one language. It implements core.Recognizer.
type HTTPRecognizer struct {
	analyzerURL string
	language    string
	client      *http.Client
}

// NewHTTPRecognizer creates a recognizer adapter for the analyzer service at
// analyzerURL, requesting analysis for the given language code.
func NewHTTPRecognizer(analyzerURL, language string, timeout time.Duration) *HTTPRecognizer {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRecognizer{
		analyzerURL: analyzerURL,
		language:    language,
		client:      &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type analyzeResult struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

// Recognize sends text to the analyzer and returns the labeled spans. Spans
// with offsets outside the text are dropped rather than trusted.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]core.Span, error) {
	payload, err := json.Marshal(analyzeRequest{Text: text, Language: r.language})
	if err != nil {
		return nil, fmt.Errorf("marshaling analyzer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.analyzerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, string(body))
	}

	var results []analyzeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding analyzer response: %w", err)
	}

	spans := make([]core.Span, 0, len(results))
	for _, result := range results {
		if result.Start < 0 || result.End > len(text) || result.Start >= result.End {
			continue
		}
		spans = append(spans, core.Span{
			Label: result.EntityType,
			Start: result.Start,
			End:   result.End,
			Text:  text[result.Start:result.End],
		})
	}

	return spans, nil
}
