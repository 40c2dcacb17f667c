package api

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is how many edits a value may be from a known one and
// still get a hint.
const maxSuggestDistance = 2

// closest returns the candidate nearest to value, ignoring case, when it is
// within maxSuggestDistance edits.
func closest(value string, candidates []string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best, best != ""
}

func unknownValueError(kind, value string, candidates []string) error {
	if hint, ok := closest(value, candidates); ok {
		return fmt.Errorf("unknown %s %q, did you mean %q?", kind, value, hint)
	}
	return fmt.Errorf("unknown %s %q, expected one of %s", kind, value, strings.Join(candidates, ", "))
}
