package image

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

const maxSuggestionDistance = 3

// suggest returns a note naming the candidate closest to name, if any is close enough.
func suggest(name string, candidates []string) []string {
	best := ""
	bestDistance := maxSuggestionDistance + 1

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	for _, candidate := range sorted {
		distance := levenshtein.ComputeDistance(name, candidate)
		if distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	if best == "" {
		return nil
	}
	return []string{fmt.Sprintf("did you mean `%s`?", best)}
}
