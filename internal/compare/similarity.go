// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

// Content similarity is a Dice coefficient over character bigrams,
// bounded to [0, 1]. The measure is symmetric and cheap: one pass to
// count bigrams per string. Very different lengths short-circuit to 0
// since a translation candidate three times longer than its source is
// never a real match.

const lengthRatioFloor = 0.3

// Similarity scores how alike two strings are. Identical non-empty
// strings score 1.0; disjoint or empty strings score 0.0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	shorter, longer := len(ra), len(rb)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if float64(shorter)/float64(longer) < lengthRatioFloor {
		return 0
	}
	if len(ra) < 2 || len(rb) < 2 {
		// No bigrams to compare and the strings differ.
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i+1 < len(ra); i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	common := 0
	for i := 0; i+1 < len(rb); i++ {
		key := [2]rune{rb[i], rb[i+1]}
		if counts[key] > 0 {
			counts[key]--
			common++
		}
	}

	total := (len(ra) - 1) + (len(rb) - 1)
	return float64(2*common) / float64(total)
}
