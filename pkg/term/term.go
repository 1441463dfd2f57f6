// Package term holds the weighted vocabulary entry shared by every index and
// the orderings used to search and rank entries.
package term

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

var (
	// ErrInvalidInput is returned when a required argument is missing or malformed:
	// an empty word, a string that is not valid UTF-8, nil input slices.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWeight is returned for a negative (or NaN) weight.
	ErrInvalidWeight = errors.New("invalid weight")
)

// Term is an immutable (word, weight) pair.
type Term struct {
	word   string
	weight float64
}

// New validates and builds a Term.
func New(word string, weight float64) (Term, error) {
	if word == "" {
		return Term{}, fmt.Errorf("%w: empty word", ErrInvalidInput)
	}
	if !utf8.ValidString(word) {
		return Term{}, fmt.Errorf("%w: word %q is not valid UTF-8", ErrInvalidInput, word)
	}
	if weight < 0 || math.IsNaN(weight) {
		return Term{}, fmt.Errorf("%w: %v for word %q", ErrInvalidWeight, weight, word)
	}
	return Term{word: word, weight: weight}, nil
}

// Word returns the term's text.
func (t Term) Word() string { return t.word }

// Weight returns the term's weight.
func (t Term) Weight() float64 { return t.weight }

func (t Term) String() string {
	return fmt.Sprintf("%14.1f\t%s", t.weight, t.word)
}

// FromSlices pairs words[i] with weights[i]. Both slices must be non-nil and of
// equal length; the first invalid entry rejects the whole input.
func FromSlices(words []string, weights []float64) ([]Term, error) {
	if words == nil || weights == nil {
		return nil, fmt.Errorf("%w: words and weights are required", ErrInvalidInput)
	}
	if len(words) != len(weights) {
		return nil, fmt.Errorf("%w: %d words but %d weights", ErrInvalidInput, len(words), len(weights))
	}
	terms := make([]Term, len(words))
	for i := range words {
		t, err := New(words[i], weights[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		terms[i] = t
	}
	return terms, nil
}

// ValidPrefix reports whether prefix can be used as a query. The empty prefix is
// valid and matches every word.
func ValidPrefix(prefix string) error {
	if !utf8.ValidString(prefix) {
		return fmt.Errorf("%w: prefix %q is not valid UTF-8", ErrInvalidInput, prefix)
	}
	return nil
}

// Probe builds an unvalidated search key. It may hold an empty word and is
// never stored in an index.
func Probe(prefix string) Term {
	return Term{word: prefix}
}
