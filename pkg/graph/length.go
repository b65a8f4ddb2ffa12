package graph

import "github.com/rivo/uniseg"

// DisplayLength returns the number of user-perceived characters in s,
// counting Unicode extended grapheme clusters. A base letter followed by
// combining marks, or a multi-code-point emoji sequence, counts as one.
func DisplayLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
