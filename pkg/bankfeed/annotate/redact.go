package annotate

import "regexp"

// Placeholder replaces every PII-shaped span in redacted text.
const Placeholder = "[REDACTED_PII]"

// piiPatterns is the fixed, ordered substitution list. Order matters: card
// and SSN shapes are consumed before the generic digit-run and phone
// patterns, so a span replaced with the non-numeric placeholder can never be
// re-matched by a later numeric pattern.
var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`),            // card-number shaped
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                             // SSN shaped
	regexp.MustCompile(`\b\d{9,18}\b`),                                      // long digit runs (account numbers)
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email addresses
	regexp.MustCompile(`\b\+?\d{7,15}\b`),                                   // phone shaped
}

// Redact replaces all PII-shaped substrings in text with Placeholder. Each
// pattern scans the current, possibly already-redacted text in sequence.
func Redact(text string) string {
	redacted := text
	for _, re := range piiPatterns {
		redacted = re.ReplaceAllString(redacted, Placeholder)
	}
	return redacted
}
