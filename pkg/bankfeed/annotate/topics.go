package annotate

import "fmt"

// TopicGeneral is returned when no topic pattern matches at all.
const TopicGeneral = "general"

// TopicClassifier assigns one primary topic label via keyword-match scoring.
// Topics are kept in declaration order; the first topic reaching the maximum
// match count wins, which keeps classification deterministic.
type TopicClassifier struct {
	topics []compiledTag
}

// NewTopicClassifier compiles the topic taxonomy, preserving declaration
// order for tie-breaking.
func NewTopicClassifier(taxonomy []TagPatterns) (*TopicClassifier, error) {
	topics, err := compileTags(taxonomy)
	if err != nil {
		return nil, fmt.Errorf("topics: %w", err)
	}
	return &TopicClassifier{topics: topics}, nil
}

// Classify returns the topic whose patterns match text the most times, or
// TopicGeneral when nothing matches.
func (c *TopicClassifier) Classify(text string) string {
	best := TopicGeneral
	bestScore := 0
	for _, topic := range c.topics {
		score := 0
		for _, re := range topic.patterns {
			score += len(re.FindAllStringIndex(text, -1))
		}
		if score > bestScore {
			best = topic.name
			bestScore = score
		}
	}
	return best
}
