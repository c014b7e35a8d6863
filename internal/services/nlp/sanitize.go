package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPreviewLength is the maximum length for preview strings in logs.
	MaxPreviewLength = 200
	// maxDebugContentLength is the cap applied in full-log debug mode.
	maxDebugContentLength = 10000
)

// SanitizePreview creates a safe preview of prompt or response content for
// logging. Even in fullLog mode content is sanitized to prevent log
// injection and bound size.
func SanitizePreview(content string, fullLog bool) string {
	if content == "" {
		return ""
	}
	maxLen := MaxPreviewLength
	if fullLog {
		maxLen = maxDebugContentLength
	}
	return sanitizeStringForLogging(content, maxLen)
}

// sanitizeStringForLogging removes control characters, validates UTF-8, and
// truncates.
func sanitizeStringForLogging(s string, maxLen int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
