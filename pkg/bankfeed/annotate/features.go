// Package annotate holds the deterministic text annotators: feature tagging,
// platform/version hints, PII redaction, issue detection, sentiment scoring,
// topic classification and the engagement quality gate. Every annotator is a
// pure function over its input text; none of them can fail on well-formed or
// empty input once constructed.
package annotate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// TagPatterns binds a tag name to its match patterns. Declaration order is
// preserved by consumers that need deterministic tie-breaking.
type TagPatterns struct {
	Tag      string
	Patterns []string
}

// FeatureTagger maps text to a fixed taxonomy of feature tags.
type FeatureTagger struct {
	tags []compiledTag
}

type compiledTag struct {
	name     string
	patterns []*regexp.Regexp
}

// NewFeatureTagger compiles the feature taxonomy. Patterns are matched
// case-insensitively.
func NewFeatureTagger(taxonomy []TagPatterns) (*FeatureTagger, error) {
	tags, err := compileTags(taxonomy)
	if err != nil {
		return nil, err
	}
	return &FeatureTagger{tags: tags}, nil
}

// Tags returns the sorted set of feature tags with at least one pattern
// matching anywhere in text.
func (f *FeatureTagger) Tags(text string) []string {
	var out []string
	for _, tag := range f.tags {
		for _, re := range tag.patterns {
			if re.MatchString(text) {
				out = append(out, tag.name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

var (
	platformRe = regexp.MustCompile(`(?i)\b(iOS|Android)\b`)
	versionRe  = regexp.MustCompile(`(?i)\b(v|version)?\s?\d+\.\d+(\.\d+)?\b`)
)

// PlatformVersion returns the first platform token and the first
// version-like token found in text. Either is empty when absent. Only a
// literal lowercase "version" prefix is stripped from the hint; other
// prefixes ("Version", "v") pass through as matched.
func PlatformVersion(text string) (platform, version string) {
	if m := platformRe.FindString(text); m != "" {
		platform = m
	}
	if m := versionRe.FindString(text); m != "" {
		version = strings.TrimSpace(strings.ReplaceAll(m, "version", ""))
	}
	return platform, version
}

func compileTags(taxonomy []TagPatterns) ([]compiledTag, error) {
	tags := make([]compiledTag, 0, len(taxonomy))
	for _, entry := range taxonomy {
		ct := compiledTag{name: entry.Tag}
		for _, p := range entry.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("tag %q: pattern %q: %w", entry.Tag, p, err)
			}
			ct.patterns = append(ct.patterns, re)
		}
		tags = append(tags, ct)
	}
	return tags, nil
}
