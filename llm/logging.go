package llm

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
)

// RequestLogger handles structured request/response logging for the model
// adapters. Text being classified or recognized is never logged; only its
// length is.
type RequestLogger struct {
	logger     *log.Logger
	auditLevel string
}

// NewRequestLogger creates a new request logger
func NewRequestLogger(logger *log.Logger, auditLevel string) *RequestLogger {
	return &RequestLogger{
		logger:     logger,
		auditLevel: auditLevel,
	}
}

// LogRequest logs request details according to audit level
func (l *RequestLogger) LogRequest(requestID string, request map[string]interface{}, level string) {
	if level == "minimal" && l.auditLevel == "minimal" {
		return
	}

	logEntry := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
		"event":      "request",
		"level":      level,
		"data":       request,
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		l.logger.Printf("Error marshaling log entry: %v", err)
		return
	}

	l.logger.Println(string(jsonData))
}

// LogResponse logs response details according to audit level
func (l *RequestLogger) LogResponse(requestID string, response interface{}, duration time.Duration, level string) {
	if level == "minimal" && l.auditLevel == "minimal" {
		l.logger.Printf("Request %s completed in %v", requestID, duration)
		return
	}

	logEntry := map[string]interface{}{
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"request_id":  requestID,
		"event":       "response",
		"level":       level,
		"duration_ms": duration.Milliseconds(),
		"data":        response,
	}

	jsonData, err := json.Marshal(logEntry)
	if err != nil {
		l.logger.Printf("Error marshaling log entry: %v", err)
		return
	}

	l.logger.Println(string(jsonData))
}

// generateRequestID creates a unique ID for request tracking
func generateRequestID() string {
	return uuid.NewString()
}
