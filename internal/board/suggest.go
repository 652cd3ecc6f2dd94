package board

import "github.com/agnivade/levenshtein"

// closestListID returns the known id nearest to unknown, or "" when nothing
// is close enough to be a plausible typo.
func closestListID(unknown string, known []string) string {
	best := ""
	bestDist := -1
	for _, id := range known {
		d := levenshtein.ComputeDistance(unknown, id)
		if bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	limit := len(unknown) / 2
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
