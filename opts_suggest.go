package opts

import (
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// closestMatch finds the closest candidate to target using fuzzy matching,
// or "" when nothing is near enough.
func closestMatch(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
