package match

import "sort"

// Levenshtein computes the Levenshtein distance (edit distance) between two strings.
// The distance is the minimum number of single-byte edits (insertions, deletions,
// or substitutions) required to transform one string into the other.
//
// Space complexity: O(min(len(a), len(b))).
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// maxDistance is how far a candidate may be from name to be suggested: a
// third of the name, and at least one edit.
func maxDistance(name string) int {
	return max(1, len(name)/3)
}

// Closest returns the candidate nearest to name, if one is near enough to be
// a plausible misspelling. Ties go to the candidate sorting first.
func Closest(name string, candidates []string) (string, bool) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best, bestDist := "", maxDistance(name)+1

	for _, c := range sorted {
		if c == name {
			continue
		}

		if d := Levenshtein(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}
