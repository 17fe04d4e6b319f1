package annotate

import (
	"fmt"
	"regexp"
	"strings"
)

// Sentiment labels.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// IssueDetector matches the broad banking-problem vocabulary (login
// failures, fraud, crashes, failed transfers). An issue hit is a strong
// negative signal for sentiment.
type IssueDetector struct {
	re *regexp.Regexp
}

// NewIssueDetector compiles the issue term list into a single alternation.
func NewIssueDetector(terms []string) (*IssueDetector, error) {
	re, err := compileAlternation(terms)
	if err != nil {
		return nil, fmt.Errorf("issue terms: %w", err)
	}
	return &IssueDetector{re: re}, nil
}

// Match reports whether text is issue-like.
func (d *IssueDetector) Match(text string) bool {
	return d.re.MatchString(text)
}

// SentimentClassifier scores text on a positive/negative/neutral scale from
// term counts and the issue signal.
type SentimentClassifier struct {
	positive *regexp.Regexp
	negative *regexp.Regexp
	issues   *IssueDetector
}

// NewSentimentClassifier compiles the positive and negative term lists.
func NewSentimentClassifier(positive, negative []string, issues *IssueDetector) (*SentimentClassifier, error) {
	pos, err := compileAlternation(positive)
	if err != nil {
		return nil, fmt.Errorf("positive terms: %w", err)
	}
	neg, err := compileAlternation(negative)
	if err != nil {
		return nil, fmt.Errorf("negative terms: %w", err)
	}
	return &SentimentClassifier{positive: pos, negative: neg, issues: issues}, nil
}

// Analyze returns the sentiment label and score for text. The decision table
// is evaluated in order:
//
//	issue and negative terms  -> -0.8 negative
//	issue alone               -> -0.5 negative
//	more positive than negative -> 0.6 positive
//	more negative than positive -> -0.3 negative
//	otherwise                   -> 0.0 neutral
func (s *SentimentClassifier) Analyze(text string) (label string, score float64) {
	posCount := len(s.positive.FindAllString(text, -1))
	negCount := len(s.negative.FindAllString(text, -1))
	isIssue := s.issues.Match(text)

	switch {
	case isIssue && negCount > 0:
		return LabelNegative, -0.8
	case isIssue:
		return LabelNegative, -0.5
	case posCount > negCount:
		return LabelPositive, 0.6
	case negCount > posCount:
		return LabelNegative, -0.3
	default:
		return LabelNeutral, 0.0
	}
}

// compileAlternation joins term patterns into one case-insensitive regexp.
func compileAlternation(terms []string) (*regexp.Regexp, error) {
	if len(terms) == 0 {
		// Matches nothing; keeps empty configs well-defined.
		return regexp.Compile(`\b\B`)
	}
	return regexp.Compile("(?i)" + strings.Join(terms, "|"))
}
