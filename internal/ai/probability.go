package ai

import (
	"regexp"
	"strconv"
)

// DefaultProbability is used when the reply carries no percentage.
const DefaultProbability = 50

var percentPattern = regexp.MustCompile(`(\d+)%`)

// ExtractProbability reads the first "<n>%" in text, clamped to [0,100].
// Model output is free text so this is a best-effort heuristic.
func ExtractProbability(text string) int {
	m := percentPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultProbability
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only overflow is possible for a run of digits.
		return 100
	}
	return min(max(n, 0), 100)
}
