package trie

import "fmt"

// Policy selects how TopKMatches orders a word that is also the prefix of a
// heavier word.
type Policy int

const (
	// OrderByWeight emits words strictly by their own weight. A popped word
	// node is re-queued under its own weight and only emitted once nothing
	// left on the frontier can beat it. {"a":1, "ab":10} gives ["ab", "a"].
	OrderByWeight Policy = iota

	// OrderByBound emits a word as soon as its node is popped, which happens
	// at the node's subtree bound. A light word that prefixes a heavy one is
	// therefore emitted early: {"a":1, "ab":10} gives ["a", "ab"].
	OrderByBound
)

func (p Policy) String() string {
	switch p {
	case OrderByWeight:
		return "weight"
	case OrderByBound:
		return "bound"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps "weight" and "bound" to their Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "weight":
		return OrderByWeight, nil
	case "bound":
		return OrderByBound, nil
	}
	return OrderByWeight, fmt.Errorf("unknown trie order %q (want weight or bound)", s)
}

// Option configures a Trie.
type Option func(*Trie)

// WithPolicy sets the TopKMatches ordering.
func WithPolicy(p Policy) Option {
	return func(t *Trie) { t.policy = p }
}

// WithBoundOrder is shorthand for WithPolicy(OrderByBound).
func WithBoundOrder() Option {
	return WithPolicy(OrderByBound)
}
