// Package redact strips credentials from text before it leaves the process.
//
// Riko renders completion-service failures as visible chat messages, and
// some providers echo the Authorization header back inside error bodies.
// Redaction is best-effort pattern matching on string representations; it is
// not a substitute for keeping secrets out of error paths in the first
// place.
package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// keyPatterns matches well-known API-key formats. Each pattern is
// intentionally specific (vendor prefix + sufficient length) to keep the
// false-positive rate low.
var keyPatterns = []*regexp.Regexp{
	// Groq
	regexp.MustCompile(`\bgsk_[A-Za-z0-9]{20,}\b`),
	// OpenAI, classic and project variants
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`),
	regexp.MustCompile(`\bsk-proj-[A-Za-z0-9_\-]{20,}\b`),
	// Anthropic
	regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_\-]{20,}\b`),
	// Bearer header echoed back by a proxy
	regexp.MustCompile(`Bearer\s+[A-Za-z0-9_\-.]{16,}`),
}

// String replaces every known credential pattern in s, plus every explicit
// sensitive value passed by the caller, with [REDACTED]. Explicit values
// shorter than 4 characters are skipped to avoid spurious redaction of
// common substrings.
func String(s string, sensitiveValues ...string) string {
	for _, re := range keyPatterns {
		s = re.ReplaceAllString(s, placeholder)
	}
	for _, v := range sensitiveValues {
		if len(v) < 4 {
			continue
		}
		s = strings.ReplaceAll(s, v, placeholder)
	}
	return s
}

// Error redacts err's message. A nil error yields the empty string.
func Error(err error, sensitiveValues ...string) string {
	if err == nil {
		return ""
	}
	return String(err.Error(), sensitiveValues...)
}
