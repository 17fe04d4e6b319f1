package annotate

// KeepByQuality admits a post only when it meets both engagement thresholds.
func KeepByQuality(score, numComments, minScore, minComments int) bool {
	return score >= minScore && numComments >= minComments
}
