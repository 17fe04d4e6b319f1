// Package config loads the lexicon and taxonomy tables that drive
// annotation. Every table can be overridden from a YAML file; a missing
// path falls back to the built-in defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LexiconFile is the YAML shape of the institution lexicon.
type LexiconFile struct {
	Phrases       []string          `yaml:"phrases"`
	Brands        []string          `yaml:"brands"`
	Ambiguous     []string          `yaml:"ambiguous"`
	Aliases       map[string]string `yaml:"aliases"`
	Exclusions    []string          `yaml:"exclusions"`
	ContextWords  []string          `yaml:"context_words"`
	ContextWindow int               `yaml:"context_window"`
	PhraseForms   map[string]string `yaml:"phrase_forms"`
}

// TagList is one named group of regex patterns, used for both feature tags
// and topics. Order matters for topics: earlier entries win score ties.
type TagList struct {
	Tag      string   `yaml:"tag"`
	Patterns []string `yaml:"patterns"`
}

// TaxonomyFile is the YAML shape of the annotation taxonomies.
type TaxonomyFile struct {
	Features      []TagList `yaml:"features"`
	Topics        []TagList `yaml:"topics"`
	PositiveTerms []string  `yaml:"positive_terms"`
	NegativeTerms []string  `yaml:"negative_terms"`
	IssueTerms    []string  `yaml:"issue_terms"`
}

// LoadLexiconFile loads a lexicon override from a YAML file.
func LoadLexiconFile(path string) (*LexiconFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lf LexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, err
	}

	return &lf, nil
}

// LoadTaxonomyFile loads a taxonomy override from a YAML file.
func LoadTaxonomyFile(path string) (*TaxonomyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf TaxonomyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, err
	}

	return &tf, nil
}

// Run holds the collection parameters for one ingestion run.
type Run struct {
	Subreddits  []string `yaml:"subreddits"`
	Sort        string   `yaml:"sort"`
	FetchLimit  int      `yaml:"fetch_limit"`
	MinScore    int      `yaml:"min_score"`
	MinComments int      `yaml:"min_comments"`
	TimeFilter  string   `yaml:"time_filter"`
}

// DefaultRun returns the collection parameters used when a run does not
// override them.
func DefaultRun() Run {
	return Run{
		Subreddits: []string{
			"personalfinance", "Banking", "CreditCards",
			"Chimebank", "Revolut", "Monzo",
		},
		Sort:        "hot",
		FetchLimit:  200,
		MinScore:    5,
		MinComments: 5,
		TimeFilter:  "day",
	}
}
