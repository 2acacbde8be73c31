package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input, or "" when none is close
// enough to be a likely typo.
func Suggest(input string, candidates []string) string {
	needle := strings.ToLower(strings.TrimSpace(input))
	if len(needle) < 3 {
		return ""
	}
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		if strings.HasPrefix(lower, needle) {
			return cand
		}
		dist := levenshtein.ComputeDistance(needle, lower)
		if dist > distanceLimit(len(lower)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
