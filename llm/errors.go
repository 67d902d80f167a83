package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrorCategory defines standardized error categories for audit trails
type ErrorCategory string

const (
	ErrorCategoryValidation ErrorCategory = "validation"
	ErrorCategoryRateLimit  ErrorCategory = "rate_limit"
	ErrorCategoryTimeout    ErrorCategory = "timeout"
	ErrorCategoryNetwork    ErrorCategory = "network"
	ErrorCategoryModel      ErrorCategory = "model"
	ErrorCategorySystem     ErrorCategory = "system"
)

// AdapterError wraps adapter failures with standardized metadata. The engine
// surfaces these unchanged inside a DetectionUnavailableError; retry policy
// lives here in the adapter, never in the engine.
type AdapterError struct {
	Category    ErrorCategory
	OriginalErr error
	RequestID   string
	Timestamp   time.Time
	Details     map[string]interface{}
}

func (e AdapterError) Error() string {
	return fmt.Sprintf("[%s] %s (request: %s)", e.Category, e.OriginalErr.Error(), e.RequestID)
}

func (e AdapterError) Unwrap() error {
	return e.OriginalErr
}

// newAdapterError creates a new AdapterError with standard fields
func newAdapterError(category ErrorCategory, err error, requestID string, details map[string]interface{}) AdapterError {
	return AdapterError{
		Category:    category,
		OriginalErr: err,
		RequestID:   requestID,
		Timestamp:   time.Now(),
		Details:     details,
	}
}

// ErrorReporter handles standardized JSON-line error reporting
type ErrorReporter struct {
	logger *log.Logger
}

// NewErrorReporter creates a new error reporter
func NewErrorReporter(logger *log.Logger) *ErrorReporter {
	return &ErrorReporter{
		logger: logger,
	}
}

// ReportError logs an error in structured format
func (e *ErrorReporter) ReportError(err error) {
	var adapterErr AdapterError
	details := map[string]interface{}{}

	if errors.As(err, &adapterErr) {
		details = map[string]interface{}{
			"category":   string(adapterErr.Category),
			"request_id": adapterErr.RequestID,
			"timestamp":  adapterErr.Timestamp.Format(time.RFC3339),
		}

		for k, v := range adapterErr.Details {
			details[k] = v
		}
	}

	logEntry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"event":     "error",
		"error":     err.Error(),
		"details":   details,
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		e.logger.Printf("Error marshaling error log: %v", err)
		return
	}

	e.logger.Println(string(jsonData))
}

// categorizeError categorizes error based on error message
func categorizeError(err error) ErrorCategory {
	errStr := err.Error()

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline") {
		return ErrorCategoryTimeout
	} else if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") {
		return ErrorCategoryNetwork
	} else if strings.Contains(errStr, "invalid") || strings.Contains(errStr, "validation") {
		return ErrorCategoryValidation
	} else if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "too many requests") {
		return ErrorCategoryRateLimit
	}

	return ErrorCategorySystem
}
