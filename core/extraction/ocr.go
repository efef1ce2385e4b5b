package extraction

import (
	"strings"
	"unicode/utf8"
)

// DefaultOCRThreshold is the minimum number of characters (after trimming) a page
// must hold to be considered as having a real text layer.
// It is a heuristic: scanned pages usually yield no text at all.
const DefaultOCRThreshold = 10

// NeedsOCR returns, in ascending order, the indices of pages whose trimmed text
// holds fewer than threshold characters. It never returns nil.
func NeedsOCR(pages []string, threshold int) []int {
	idxs := make([]int, 0)
	for i, text := range pages {
		if utf8.RuneCountInString(strings.TrimSpace(text)) < threshold {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
