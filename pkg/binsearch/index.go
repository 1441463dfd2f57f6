/*
Package binsearch implements prefix completion over a sorted array of terms.

A query bounds the run of entries sharing the prefix with two binary searches
under term.PrefixOrder, then ranks that run by weight:

	idx, err := binsearch.New([]string{"air", "bat", "bell", "boy"}, []float64{3, 2, 4, 1})
	words, err := idx.TopKMatches("b", 2) // ["bell", "bat"]

Prefix matching ignores case, so the array is sorted by term.FoldedOrder: every
spelling of a prefix sits in one contiguous run.

Weights are ranked by their integer part (see term.ReverseWeightOrder); entries
with the same integer weight keep their folded order.
*/
package binsearch

import (
	"slices"
	"unicode/utf8"

	"github.com/bastiangx/wordrank/pkg/term"
)

// Index is immutable once built and safe for concurrent queries.
type Index struct {
	terms []term.Term
}

// New pairs words[i] with weights[i] and sorts the result once. A word listed
// twice keeps its last weight.
func New(words []string, weights []float64) (*Index, error) {
	terms, err := term.FromSlices(words, weights)
	if err != nil {
		return nil, err
	}
	terms = dedupe(terms)
	slices.SortFunc(terms, term.FoldedOrder)
	return &Index{terms: terms}, nil
}

// dedupe keeps the last occurrence of every word, in place.
func dedupe(terms []term.Term) []term.Term {
	last := make(map[string]int, len(terms))
	for i, t := range terms {
		last[t.Word()] = i
	}
	if len(last) == len(terms) {
		return terms
	}
	kept := terms[:0]
	for i, t := range terms {
		if last[t.Word()] == i {
			kept = append(kept, t)
		}
	}
	return kept
}

// Len returns the number of indexed terms.
func (idx *Index) Len() int { return len(idx.terms) }

// Terms returns a copy of the sorted terms.
func (idx *Index) Terms() []term.Term {
	return slices.Clone(idx.terms)
}

// matches returns the sub-slice of terms whose first len(prefix) runes equal
// prefix, ignoring case. The result aliases idx.terms.
func (idx *Index) matches(prefix string) []term.Term {
	key := term.Probe(prefix)
	cmp := term.PrefixOrder(utf8.RuneCountInString(prefix))

	first := FirstIndexOf(idx.terms, key, cmp)
	if first < 0 {
		return nil
	}
	last := LastIndexOf(idx.terms, key, cmp)
	return idx.terms[first : last+1]
}

// TopKMatches returns up to k words starting with prefix, heaviest first.
func (idx *Index) TopKMatches(prefix string, k int) ([]string, error) {
	if err := term.ValidPrefix(prefix); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []string{}, nil
	}

	found := slices.Clone(idx.matches(prefix))
	slices.SortStableFunc(found, term.ReverseWeightOrder)

	n := min(k, len(found))
	words := make([]string, n)
	for i := range n {
		words[i] = found[i].Word()
	}
	return words, nil
}

// TopMatch returns the heaviest word starting with prefix, or "" if none does.
func (idx *Index) TopMatch(prefix string) (string, error) {
	if err := term.ValidPrefix(prefix); err != nil {
		return "", err
	}

	found := idx.matches(prefix)
	if len(found) == 0 {
		return "", nil
	}
	best := found[0]
	for _, t := range found[1:] {
		if term.ReverseWeightOrder(t, best) < 0 {
			best = t
		}
	}
	return best.Word(), nil
}
