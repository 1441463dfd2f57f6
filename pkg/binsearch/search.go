package binsearch

import "github.com/bastiangx/wordrank/pkg/term"

// FirstIndexOf returns the smallest i with cmp(a[i], key) == 0, or -1.
// a must be sorted consistently with cmp (cmp may be coarser than the order a
// was sorted by). It calls cmp at most 1+ceil(log2 n) times.
func FirstIndexOf(a []term.Term, key term.Term, cmp term.Order) int {
	if len(a) == 0 {
		return -1
	}
	// everything at or below low sorts before key; the first match, if any, is
	// at or below high
	low, high := -1, len(a)-1
	for high-low > 1 {
		mid := low + (high-low)/2
		if cmp(a[mid], key) < 0 {
			low = mid
		} else {
			high = mid
		}
	}
	if cmp(a[high], key) == 0 {
		return high
	}
	return -1
}

// LastIndexOf returns the largest i with cmp(a[i], key) == 0, or -1. Same
// preconditions and comparison budget as FirstIndexOf.
func LastIndexOf(a []term.Term, key term.Term, cmp term.Order) int {
	if len(a) == 0 {
		return -1
	}
	low, high := 0, len(a)
	for high-low > 1 {
		mid := low + (high-low)/2
		if cmp(a[mid], key) > 0 {
			high = mid
		} else {
			low = mid
		}
	}
	if cmp(a[low], key) == 0 {
		return low
	}
	return -1
}
