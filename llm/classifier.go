package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/legalguard/piiguard/core"
)

// ClassifierConfig holds configuration for the MCP-backed language classifier
type ClassifierConfig struct {
	ToolName     string        // MCP tool name to call
	Model        string        // Model name passed to the tool
	Temperature  float64       // Controls randomness (0.0-1.0)
	MaxTokens    int           // Maximum tokens to generate
	Timeout      time.Duration // Per-call timeout when the caller sets no deadline
	RetryCount   int           // Number of retries on failure
	RetryBackoff time.Duration // Backoff duration between retries

	RateLimitEnabled  bool   // Enable rate limiting of classifier calls
	RequestsPerMinute int    // Max requests per minute when rate limited
	AuditLevel        string // Request logging level: "minimal", "standard", "verbose"
}

// classification is the JSON response contract of the classifier tool
type classification struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// MCPClassifier classifies text language by prompting a model hosted behind
// an MCP server. It implements core.LanguageClassifier.
type MCPClassifier struct {
	client *client.StdioMCPClient
	config ClassifierConfig

	rateLimiter   *RateLimiter
	requestLog    *RequestLogger
	errorReporter *ErrorReporter
}

// NewMCPClassifier connects to the MCP server at serverPath (or a discovered
// one when empty) and returns a ready classifier.
func NewMCPClassifier(serverPath string, config *ClassifierConfig) (*MCPClassifier, error) {
	serverConfig, err := GetMCPServerConfig(serverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to configure MCP server: %w", err)
	}

	config = LoadClassifierConfig(config)

	mcpClient, err := client.NewStdioMCPClient(serverConfig.Path, serverConfig.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP stdio client: %w", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "piiguard",
		Version: "1.0.0",
	}

	initCtx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()
	if _, err := mcpClient.Initialize(initCtx, initRequest); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	logger := log.New(os.Stdout, "[piiguard] ", log.LstdFlags)

	var rateLimiter *RateLimiter
	if config.RateLimitEnabled {
		if config.RequestsPerMinute == 0 {
			config.RequestsPerMinute = 60
		}
		rateLimiter = NewRateLimiter(config.RequestsPerMinute, 1*time.Minute)
	}

	return &MCPClassifier{
		client:        mcpClient,
		config:        *config,
		rateLimiter:   rateLimiter,
		requestLog:    NewRequestLogger(logger, config.AuditLevel),
		errorReporter: NewErrorReporter(logger),
	}, nil
}

// Close shuts down the MCP server connection.
func (c *MCPClassifier) Close() error {
	return c.client.Close()
}

// Classify returns the language code of text ("en" or "fr"). Responses the
// model phrases differently are normalized; anything unrecognized comes back
// verbatim so the engine can apply its own default dispatch.
func (c *MCPClassifier) Classify(ctx context.Context, text string) (string, error) {
	requestID := generateRequestID()
	startTime := time.Now()

	c.requestLog.LogRequest(requestID, map[string]interface{}{
		"request_id":  requestID,
		"operation":   "classify_language",
		"input_chars": len(text),
		"model":       c.config.Model,
	}, "minimal")

	if c.rateLimiter != nil {
		limited, count, resetTime := c.rateLimiter.CheckLimit("classifier")
		if limited {
			rateLimitErr := newAdapterError(ErrorCategoryRateLimit,
				fmt.Errorf("rate limit exceeded: %d requests (limit: %d)",
					count, c.config.RequestsPerMinute),
				requestID,
				map[string]interface{}{
					"current_count": count,
					"limit":         c.config.RequestsPerMinute,
					"reset_time":    resetTime.Format(time.RFC3339),
				})
			c.errorReporter.ReportError(rateLimitErr)
			return "", rateLimitErr
		}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = c.config.ToolName
	request.Params.Arguments = map[string]interface{}{
		"model":       c.config.Model,
		"temperature": c.config.Temperature,
		"max_tokens":  c.config.MaxTokens,
		"request_id":  requestID,
		"prompt":      classificationPrompt(text),
	}

	var result *mcp.CallToolResult
	var err error
	var lastError error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			backoffTime := c.config.RetryBackoff * time.Duration(1<<(attempt-1))
			time.Sleep(backoffTime)
			c.requestLog.LogRequest(requestID, map[string]interface{}{
				"retry_attempt":  attempt,
				"backoff_ms":     backoffTime.Milliseconds(),
				"previous_error": lastError.Error(),
			}, "verbose")
		}

		result, err = c.client.CallTool(ctx, request)
		lastError = err

		if err == nil {
			break
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			timeoutErr := newAdapterError(ErrorCategoryTimeout,
				fmt.Errorf("classify call timeout or canceled: %w", err),
				requestID, nil)
			c.errorReporter.ReportError(timeoutErr)
			return "", timeoutErr
		}
	}

	if err != nil {
		finalErr := newAdapterError(categorizeError(err),
			fmt.Errorf("classify call failed after %d attempts: %w", c.config.RetryCount+1, err),
			requestID, nil)
		c.errorReporter.ReportError(finalErr)
		return "", finalErr
	}

	code, err := parseClassification(result)
	if err != nil {
		modelErr := newAdapterError(ErrorCategoryModel,
			fmt.Errorf("error processing classify result: %w", err),
			requestID, nil)
		c.errorReporter.ReportError(modelErr)
		return "", modelErr
	}

	c.requestLog.LogResponse(requestID, map[string]interface{}{
		"request_id":  requestID,
		"language":    code,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}, time.Since(startTime), "standard")

	return code, nil
}

// classificationPrompt asks the model for a strict JSON verdict on whether
// the text is primarily English or French.
func classificationPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text and determine if it is primarily in English or French.
Return ONLY a JSON object with the exact structure:
{
    "language": "english" or "french",
    "confidence": 0.95
}

Text to analyze: %q

Consider vocabulary, grammar structure, common phrases, and language-specific accents.
Return only the language used in the text.`, text)
}

// parseClassification extracts the language code from an MCP tool result.
func parseClassification(result *mcp.CallToolResult) (string, error) {
	if result.IsError {
		return "", fmt.Errorf("MCP tool returned an error: %v", result.Result)
	}

	var outputStr string
	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			outputStr += textContent.Text
		}
	}

	if outputStr == "" {
		return "", fmt.Errorf("MCP tool returned no text content")
	}

	// Models occasionally wrap the JSON in prose; take the outermost object.
	start := strings.Index(outputStr, "{")
	end := strings.LastIndex(outputStr, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in classifier response: %q", outputStr)
	}

	var parsed classification
	if err := json.Unmarshal([]byte(outputStr[start:end+1]), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse classifier response: %w", err)
	}

	return NormalizeLanguageCode(parsed.Language), nil
}

// NormalizeLanguageCode maps classifier output variants onto the engine's
// language codes. Unrecognized values pass through unchanged; the engine
// treats them as its default language.
func NormalizeLanguageCode(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "en", "eng", "english":
		return core.LangEnglish
	case "fr", "fra", "fre", "french":
		return core.LangFrench
	default:
		return language
	}
}
