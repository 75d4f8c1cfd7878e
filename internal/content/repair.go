package content

import (
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

// RepairJSON turns a near-valid model response into parseable JSON. Models
// routinely wrap output in fenced code blocks, leak control characters, and
// leave trailing commas; each transform is deterministic and order matters.
func RepairJSON(raw string) string {
	cleaned := stripCodeFences(raw)
	cleaned = stripControlChars(cleaned)
	cleaned = trailingCommaRe.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

func stripCodeFences(raw string) string {
	if start := strings.Index(raw, "```json"); start >= 0 {
		body := raw[start+len("```json"):]
		if end := strings.Index(body, "```"); end >= 0 {
			return body[:end]
		}
		return body
	}
	if start := strings.Index(raw, "```"); start >= 0 {
		body := raw[start+3:]
		if end := strings.Index(body, "```"); end >= 0 {
			return body[:end]
		}
		return body
	}
	return raw
}

// stripControlChars removes non-printable control characters, keeping
// newline, tab and carriage return.
func stripControlChars(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\t', '\r':
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			return -1
		}
		return r
	}, raw)
}
