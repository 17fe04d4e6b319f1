// Package lexicon detects mentions of named financial institutions in
// free-form text against a fixed, read-only lexicon.
//
// Three tables drive detection:
//   - multi-word phrases ("wells fargo", "bank of america"), matched as
//     word-bounded, case-insensitive substrings;
//   - single-word brand tokens ("chase", "monzo"), matched only as whole
//     tokens;
//   - an ambiguous subset of the brands ("ally") whose names collide with
//     common English words and are accepted only near banking vocabulary.
//
// Hits are canonicalized through an alias map and filtered against a safety
// exclusion set of peer-payment brands that are not institutions.
package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

// Config holds the lexicon tables. All matching is case-insensitive; entries
// are normalized to lowercase at construction.
type Config struct {
	// Phrases are multi-word institution names, matched word-bounded.
	Phrases []string
	// Brands are single-word institution tokens, matched as whole tokens.
	Brands []string
	// Ambiguous lists the brands that require banking context nearby.
	Ambiguous []string
	// Aliases maps alternate spellings to canonical names.
	Aliases map[string]string
	// Exclusions are names that must never appear in output.
	Exclusions []string
	// ContextWords is the banking vocabulary that disambiguates ambiguous
	// brands ("bank", "card", "savings", ...).
	ContextWords []string
	// ContextWindow is the token distance k for the ambiguity guard.
	ContextWindow int
	// PhraseForms maps an ambiguous brand to its preferred multi-word form
	// ("ally" -> "ally bank"); the phrase is emitted instead of the bare
	// brand when it is independently present in the text.
	PhraseForms map[string]string
}

// Lexicon is an immutable institution lexicon. Construct once at process
// start and share freely; all methods are safe for concurrent use.
type Lexicon struct {
	phrases     []string
	phraseRes   map[string]*regexp.Regexp
	brands      map[string]struct{}
	ambiguous   map[string]struct{}
	aliases     map[string]string
	exclusions  map[string]struct{}
	context     map[string]struct{}
	window      int
	phraseForms map[string]string
}

// New builds a lexicon from the given tables.
func New(cfg Config) *Lexicon {
	l := &Lexicon{
		phraseRes:   make(map[string]*regexp.Regexp, len(cfg.Phrases)),
		brands:      toSet(cfg.Brands),
		ambiguous:   toSet(cfg.Ambiguous),
		aliases:     make(map[string]string, len(cfg.Aliases)),
		exclusions:  toSet(cfg.Exclusions),
		context:     toSet(cfg.ContextWords),
		window:      cfg.ContextWindow,
		phraseForms: make(map[string]string, len(cfg.PhraseForms)),
	}
	if l.window <= 0 {
		l.window = 3
	}
	for _, p := range cfg.Phrases {
		p = lower(p)
		l.phrases = append(l.phrases, p)
		l.phraseRes[p] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	for alias, canonical := range cfg.Aliases {
		l.aliases[lower(alias)] = lower(canonical)
	}
	for brand, phrase := range cfg.PhraseForms {
		l.phraseForms[lower(brand)] = lower(phrase)
	}
	return l
}

// ExtractBanks returns the canonical institution names mentioned in text,
// sorted lexicographically. The empty slice means no institution was found.
func (l *Lexicon) ExtractBanks(text string) []string {
	if text == "" {
		return nil
	}
	t := lower(text)
	hits := make(map[string]struct{})

	for _, phrase := range l.phrases {
		if l.phraseRes[phrase].MatchString(t) {
			hits[phrase] = struct{}{}
		}
	}

	tokens := Tokenize(t)
	tokenSet := toSet(tokens)
	for brand := range l.brands {
		if _, present := tokenSet[brand]; !present {
			continue
		}
		if _, amb := l.ambiguous[brand]; !amb {
			hits[brand] = struct{}{}
			continue
		}
		if !l.contextNearby(tokens, brand) {
			continue
		}
		if phrase, ok := l.phraseForms[brand]; ok && l.hasPhrase(t, phrase) {
			hits[phrase] = struct{}{}
		} else {
			hits[brand] = struct{}{}
		}
	}

	normalized := make(map[string]struct{}, len(hits))
	for h := range hits {
		if canonical, ok := l.aliases[h]; ok {
			h = canonical
		}
		if _, excluded := l.exclusions[h]; excluded {
			continue
		}
		normalized[h] = struct{}{}
	}

	out := make([]string, 0, len(normalized))
	for name := range normalized {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MentionsBank reports whether text names at least one institution.
func (l *Lexicon) MentionsBank(text string) bool {
	return len(l.ExtractBanks(text)) > 0
}

// contextNearby reports whether any occurrence of brand in tokens has a
// banking-context word within the configured window.
func (l *Lexicon) contextNearby(tokens []string, brand string) bool {
	for i, tok := range tokens {
		if tok == brand && withinWindow(tokens, i, l.context, l.window) {
			return true
		}
	}
	return false
}

func (l *Lexicon) hasPhrase(loweredText, phrase string) bool {
	if re, ok := l.phraseRes[phrase]; ok {
		return re.MatchString(loweredText)
	}
	return false
}

// withinWindow reports whether any token at distance <= k from index i is in
// the context set. Pure over its inputs; the i-th token itself counts.
func withinWindow(tokens []string, i int, context map[string]struct{}, k int) bool {
	lo, hi := i-k, i+k+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(tokens) {
		hi = len(tokens)
	}
	for _, tok := range tokens[lo:hi] {
		if _, ok := context[tok]; ok {
			return true
		}
	}
	return false
}

func lower(s string) string { return strings.ToLower(s) }

func toSet(in []string) map[string]struct{} {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		set[lower(s)] = struct{}{}
	}
	return set
}
