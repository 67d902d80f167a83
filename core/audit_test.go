package core

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legalguard/piiguard/utils"
)

func readAuditEntries(t *testing.T, path string) []AuditLog {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []AuditLog
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry AuditLog
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	return entries
}

func TestAuditLoggerStandardLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, ConfigureAuditLogger(path, AuditLogLevelStandard, 1024*1024, 7, false))

	entities := []utils.Entity{
		{Text: "a.b@c.com", Category: CategoryEmail, Start: 0, End: 9, Source: utils.SourcePattern},
	}
	logDetection(LangEnglish, entities)

	entries := readAuditEntries(t, path)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "pii_detection", entry.EventType)
	assert.Equal(t, SeverityInfo, entry.Severity)
	assert.Equal(t, LangEnglish, entry.Language)
	assert.Equal(t, 1, entry.EntityCount)
	assert.Equal(t, []string{CategoryEmail}, entry.Categories)
	assert.NotEmpty(t, entry.Timestamp)

	// Matched values must never reach disk below the verbose level
	assert.Empty(t, entry.Entities)
}

func TestAuditLoggerVerboseLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, ConfigureAuditLogger(path, AuditLogLevelVerbose, 1024*1024, 7, false))

	entities := []utils.Entity{
		{Text: "a.b@c.com", Category: CategoryEmail, Start: 0, End: 9, Source: utils.SourcePattern},
	}
	logDetection(LangFrench, entities)

	entries := readAuditEntries(t, path)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Entities, 1)
	assert.Equal(t, "a.b@c.com", entries[0].Entities[0].Text)
}

func TestAuditLoggerMinimalLevelSkipsInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, ConfigureAuditLogger(path, AuditLogLevelMinimal, 1024*1024, 7, false))

	logDetection(LangEnglish, nil)

	// Warnings still get through
	logBlocked(&BlockedContentError{Category: CategoryEmail, Text: "a.b@c.com"})

	entries := readAuditEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "content_blocked", entries[0].EventType)
	assert.Equal(t, SeverityWarning, entries[0].Severity)
}

func TestAuditLoggerBlockedOmitsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	require.NoError(t, ConfigureAuditLogger(path, AuditLogLevelStandard, 1024*1024, 7, false))

	logBlocked(&BlockedContentError{Category: CategorySSN, Text: "555-12-3456"})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "555-12-3456")

	entries := readAuditEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{CategorySSN}, entries[0].Categories)
	assert.Equal(t, "11", entries[0].Metadata["blocked_text_len"])
}

func TestAuditLoggerRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	require.NoError(t, ConfigureAuditLogger(path, AuditLogLevelStandard, 64, 7, false))

	// Each entry exceeds the tiny rotation threshold, forcing a rotation
	// before the next write
	for i := 0; i < 3; i++ {
		logDetection(LangEnglish, []utils.Entity{
			{Text: "a.b@c.com", Category: CategoryEmail, Start: 0, End: 9, Source: utils.SourcePattern},
		})
	}

	rotated, err := filepath.Glob(filepath.Join(dir, "audit.log.*"))
	require.NoError(t, err)
	assert.NotEmpty(t, rotated)
}
