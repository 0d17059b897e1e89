package services

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// TokenSortRatio scores the similarity of two strings on a 0-100
// scale, insensitive to word order: each side is tokenized, sorted and
// rejoined before a normalized Levenshtein comparison.
func TokenSortRatio(a, b string) int {
	sa := sortTokens(a)
	sb := sortTokens(b)

	longest := utf8.RuneCountInString(sa)
	if n := utf8.RuneCountInString(sb); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}

	dist := matchr.Levenshtein(sa, sb)
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
