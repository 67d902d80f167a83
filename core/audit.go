package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/legalguard/piiguard/utils"
)

// AuditLogLevel defines the verbosity of audit logging
type AuditLogLevel string

const (
	// AuditLogLevelMinimal logs only counts, never matched values
	AuditLogLevelMinimal AuditLogLevel = "minimal"

	// AuditLogLevelStandard logs counts and categories, never matched values
	AuditLogLevelStandard AuditLogLevel = "standard"

	// AuditLogLevelVerbose logs full entity details including matched text
	AuditLogLevelVerbose AuditLogLevel = "verbose"
)

// AuditLogSeverity defines the severity of audit log events
type AuditLogSeverity string

const (
	// SeverityInfo for normal detections
	SeverityInfo AuditLogSeverity = "info"

	// SeverityWarning for blocked content
	SeverityWarning AuditLogSeverity = "warning"

	// SeverityError for detection failures
	SeverityError AuditLogSeverity = "error"
)

// AuditLog represents one detection audit entry
type AuditLog struct {
	Timestamp string           `json:"timestamp"`
	EventType string           `json:"event_type"`
	Severity  AuditLogSeverity `json:"severity"`

	// Language used for detection
	Language string `json:"language,omitempty"`

	// Entity counts and categories; matched values appear only at the
	// verbose level
	EntityCount int            `json:"entity_count"`
	Categories  []string       `json:"categories,omitempty"`
	Entities    []utils.Entity `json:"entities,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// AuditLogger writes JSONL detection audit entries with size-based rotation.
type AuditLogger struct {
	mu            sync.Mutex
	logPath       string
	level         AuditLogLevel
	writer        io.Writer
	rotationSize  int64
	currentSize   int64
	logRetention  int
	initialized   bool
	enableConsole bool
}

var defaultAuditLogger *AuditLogger
var auditLoggerOnce sync.Once

// GetAuditLogger returns the singleton audit logger instance
func GetAuditLogger() *AuditLogger {
	auditLoggerOnce.Do(func() {
		defaultAuditLogger = &AuditLogger{
			logPath:      "piiguard-audit.log",
			level:        AuditLogLevelStandard,
			rotationSize: 100 * 1024 * 1024,
			logRetention: 90,
		}
	})

	return defaultAuditLogger
}

// ConfigureAuditLogger reconfigures the singleton audit logger.
func ConfigureAuditLogger(path string, level AuditLogLevel, rotationSize int64, retention int, enableConsole bool) error {
	logger := GetAuditLogger()

	logger.mu.Lock()
	defer logger.mu.Unlock()

	logger.logPath = path
	logger.level = level
	logger.rotationSize = rotationSize
	logger.logRetention = retention
	logger.enableConsole = enableConsole

	return logger.initialize()
}

func (l *AuditLogger) initialize() error {
	dir := filepath.Dir(l.logPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to get log file info: %w", err)
	}
	l.currentSize = info.Size()

	if l.enableConsole {
		l.writer = io.MultiWriter(f, os.Stdout)
	} else {
		l.writer = f
	}

	l.initialized = true
	return nil
}

func (l *AuditLogger) maybeRotateLog() error {
	if l.currentSize < l.rotationSize {
		return nil
	}

	if closer, ok := l.writer.(io.Closer); ok {
		closer.Close()
	}

	timestamp := time.Now().Format("20060102-150405")
	rotatedPath := fmt.Sprintf("%s.%s", l.logPath, timestamp)
	if err := os.Rename(l.logPath, rotatedPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	l.cleanupOldLogs()

	return l.initialize()
}

func (l *AuditLogger) cleanupOldLogs() {
	dir := filepath.Dir(l.logPath)
	base := filepath.Base(l.logPath)

	cutoffTime := time.Now().AddDate(0, 0, -l.logRetention)

	files, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil {
		return
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoffTime) {
			os.Remove(file)
		}
	}
}

// LogEvent appends an audit event. Entry content is filtered by the
// configured level before anything is written: entity values never reach
// disk below the verbose level.
func (l *AuditLogger) LogEvent(entry AuditLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		if err := l.initialize(); err != nil {
			return err
		}
	}

	if err := l.maybeRotateLog(); err != nil {
		return err
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339Nano)
	}

	if l.level == AuditLogLevelMinimal && entry.Severity == SeverityInfo {
		return nil
	}

	if l.level != AuditLogLevelVerbose {
		entry.Entities = nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	n, err := fmt.Fprintln(l.writer, string(data))
	if err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}
	l.currentSize += int64(n)

	return nil
}

// logDetection records the outcome of one detection pass.
func logDetection(language string, entities []utils.Entity) {
	distinct := make(map[string]bool, len(entities))
	var categories []string
	for _, entity := range entities {
		if !distinct[entity.Category] {
			distinct[entity.Category] = true
			categories = append(categories, entity.Category)
		}
	}

	GetAuditLogger().LogEvent(AuditLog{
		EventType:   "pii_detection",
		Severity:    SeverityInfo,
		Language:    language,
		EntityCount: len(entities),
		Categories:  categories,
		Entities:    entities,
	})
}

// logBlocked records a block-strategy abort. Only the offending category
// reaches the metadata; the matched text stays in the returned error.
func logBlocked(err error) {
	var blocked *BlockedContentError
	if !errors.As(err, &blocked) {
		return
	}

	GetAuditLogger().LogEvent(AuditLog{
		EventType:   "content_blocked",
		Severity:    SeverityWarning,
		EntityCount: 1,
		Categories:  []string{blocked.Category},
		Metadata: map[string]string{
			"blocked_text_len": strconv.Itoa(len(blocked.Text)),
		},
	})
}
