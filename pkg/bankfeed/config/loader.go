package config

import (
	"fmt"

	"github.com/finsignal/bankfeed/pkg/bankfeed/annotate"
	"github.com/finsignal/bankfeed/pkg/bankfeed/lexicon"
)

// Components bundles the compiled annotation machinery for one pipeline.
type Components struct {
	Lexicon   *lexicon.Lexicon
	Features  *annotate.FeatureTagger
	Topics    *annotate.TopicClassifier
	Sentiment *annotate.SentimentClassifier
	Issues    *annotate.IssueDetector
}

// Loader points at optional YAML overrides. Empty paths use the built-in
// tables.
type Loader struct {
	LexiconPath  string
	TaxonomyPath string
}

// Load reads the configured tables and compiles them into Components.
func (l Loader) Load() (*Components, error) {
	lf := DefaultLexicon()
	if l.LexiconPath != "" {
		loaded, err := LoadLexiconFile(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("lexicon config %s: %w", l.LexiconPath, err)
		}
		lf = loaded
	}

	tf := DefaultTaxonomy()
	if l.TaxonomyPath != "" {
		loaded, err := LoadTaxonomyFile(l.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("taxonomy config %s: %w", l.TaxonomyPath, err)
		}
		tf = loaded
	}

	return Build(lf, tf)
}

// Build compiles loaded tables into Components.
func Build(lf *LexiconFile, tf *TaxonomyFile) (*Components, error) {
	lex := lexicon.New(lexicon.Config{
		Phrases:       lf.Phrases,
		Brands:        lf.Brands,
		Ambiguous:     lf.Ambiguous,
		Aliases:       lf.Aliases,
		Exclusions:    lf.Exclusions,
		ContextWords:  lf.ContextWords,
		ContextWindow: lf.ContextWindow,
		PhraseForms:   lf.PhraseForms,
	})

	features, err := annotate.NewFeatureTagger(toTagPatterns(tf.Features))
	if err != nil {
		return nil, fmt.Errorf("feature taxonomy: %w", err)
	}

	topics, err := annotate.NewTopicClassifier(toTagPatterns(tf.Topics))
	if err != nil {
		return nil, fmt.Errorf("topic taxonomy: %w", err)
	}

	issues, err := annotate.NewIssueDetector(tf.IssueTerms)
	if err != nil {
		return nil, fmt.Errorf("issue terms: %w", err)
	}

	sentiment, err := annotate.NewSentimentClassifier(tf.PositiveTerms, tf.NegativeTerms, issues)
	if err != nil {
		return nil, fmt.Errorf("sentiment terms: %w", err)
	}

	return &Components{
		Lexicon:   lex,
		Features:  features,
		Topics:    topics,
		Sentiment: sentiment,
		Issues:    issues,
	}, nil
}

func toTagPatterns(lists []TagList) []annotate.TagPatterns {
	out := make([]annotate.TagPatterns, len(lists))
	for i, l := range lists {
		out[i] = annotate.TagPatterns{Tag: l.Tag, Patterns: l.Patterns}
	}
	return out
}
