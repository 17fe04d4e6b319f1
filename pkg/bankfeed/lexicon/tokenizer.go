package lexicon

import (
	"strings"
	"unicode"
)

// isWordRune reports whether r may continue a word token.
// Word tokens start with a letter and may contain '&', '.', '-', and '\''
// so that forms like "u.s", "it's" and "bank-owned" survive tokenization.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '&' || r == '.' || r == '-' || r == '\''
}

// Tokenize splits text into lowercased word tokens.
// Punctuation that trails a word ("done.", "ally,") is stripped so tokens
// always end on a letter.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	inWord := false

	flush := func() {
		if current.Len() > 0 {
			if tok := trimTrailing(current.String()); tok != "" {
				tokens = append(tokens, tok)
			}
			current.Reset()
		}
		inWord = false
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			current.WriteRune(unicode.ToLower(r))
			inWord = true
		case inWord && isWordRune(r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// trimTrailing strips non-letter runes from the end of a token, mirroring a
// word-boundary match: "done." becomes "done", "u.s." becomes "u.s".
func trimTrailing(tok string) string {
	return strings.TrimRightFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
