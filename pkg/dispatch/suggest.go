package dispatch

import "github.com/xrash/smetrics"

// suggestionThreshold is the minimum Jaro-Winkler similarity for a declared
// name to be offered as a suggestion.
const suggestionThreshold = 0.8

// nearest returns the declared name most similar to the attempted one, when
// its score exceeds the threshold. Ties break toward the first-registered
// name because the scan keeps the earlier winner on equal scores.
func nearest(attempted string, names []string) string {
	best := ""
	bestScore := suggestionThreshold
	for _, name := range names {
		if score := smetrics.JaroWinkler(attempted, name, 0.7, 4); score > bestScore {
			bestScore = score
			best = name
		}
	}
	return best
}
