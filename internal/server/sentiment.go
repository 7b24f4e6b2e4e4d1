package server

import "strings"

var positiveKeywords = []string{"great", "love", "perfect", "excellent", "good", "thank you", "helpful", "awesome"}

var negativeKeywords = []string{"terrible", "hate", "bad", "poor", "buggy", "slow", "not working", "issue", "problem", "difficult"}

// AnalyzeSentiment classifies a query as positive, negative, or neutral
// using keyword matching. Positive wins ties.
func AnalyzeSentiment(query string) string {
	lower := strings.ToLower(query)
	for _, keyword := range positiveKeywords {
		if strings.Contains(lower, keyword) {
			return "positive"
		}
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(lower, keyword) {
			return "negative"
		}
	}
	return "neutral"
}
