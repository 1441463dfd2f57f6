package term

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Order is a three-way comparison: negative when a sorts before b, zero when
// they are equivalent, positive otherwise.
type Order func(a, b Term) int

// Lexicographic is the default order: byte-wise by word, case-sensitive.
func Lexicographic(a, b Term) int {
	return strings.Compare(a.word, b.word)
}

// FoldedOrder compares whole words rune by rune ignoring case, then byte-wise
// between words that differ only in case. An array sorted by FoldedOrder is
// also sorted under every PrefixOrder.
func FoldedOrder(a, b Term) int {
	if c := compareFold(a.word, b.word, math.MaxInt); c != 0 {
		return c
	}
	return Lexicographic(a, b)
}

// PrefixOrder compares only the first r runes of each word, ignoring case.
// A word shorter than r is compared using the whole word, so "be" sorts before
// (and never equals) "bel" under PrefixOrder(3).
func PrefixOrder(r int) Order {
	return func(a, b Term) int {
		return compareFold(a.word, b.word, r)
	}
}

// ReverseWeightOrder sorts heavier terms first. Weights are truncated to
// integers before comparing, so 2.9 and 2.1 are equivalent.
func ReverseWeightOrder(a, b Term) int {
	return WeightOrder(b, a)
}

// WeightOrder sorts lighter terms first, with the same integer truncation as
// ReverseWeightOrder.
func WeightOrder(a, b Term) int {
	av, bv := int64(a.weight), int64(b.weight)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

// compareFold compares the first r runes of a and b rune by rune after
// lower-casing.
func compareFold(a, b string, r int) int {
	for i := 0; i < r; i++ {
		if a == "" || b == "" {
			switch {
			case a == "" && b == "":
				return 0
			case a == "":
				return -1
			}
			return 1
		}
		ar, an := utf8.DecodeRuneInString(a)
		br, bn := utf8.DecodeRuneInString(b)
		a, b = a[an:], b[bn:]

		ar, br = unicode.ToLower(ar), unicode.ToLower(br)
		if ar != br {
			if ar < br {
				return -1
			}
			return 1
		}
	}
	return 0
}
