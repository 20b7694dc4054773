// Package sanitize normalizes extracted document text and strips personal
// identifiers before anything is chunked or embedded.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern    = regexp.MustCompile(`\+?\d[\d\s\-]{7,}\d`)
	multiNewline    = regexp.MustCompile(`\n{2,}`)
	multiWhitespace = regexp.MustCompile(`\s{2,}`)
)

// Clean normalizes newlines and trims every line, dropping the empty ones.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = multiNewline.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// RemovePersonalInfo strips email-shaped substrings, 8+ digit phone runs and the
// configured username token (case-insensitive, whole word). The collapse passes run
// last so redaction never leaves double gaps behind. An empty username skips the
// token rule.
func RemovePersonalInfo(text string, username string) string {
	text = emailPattern.ReplaceAllString(text, "")
	text = phonePattern.ReplaceAllString(text, "")
	if username != "" {
		userPattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(username) + `\b`)
		text = userPattern.ReplaceAllString(text, "")
	}
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiWhitespace.ReplaceAllString(text, " ")
	return text
}
