/*
Package trie implements prefix completion over a character trie whose nodes
carry the maximum weight found anywhere below them.

Nodes live in a single arena slice and refer to each other by index. Every node
keeps the maximum weight of its subtree (its own word included), which lets
queries skip whole subtrees that cannot beat what has already been found:

	t, err := trie.New([]string{"air", "bat", "bell", "boy"}, []float64{3, 2, 4, 1})
	best, err := t.TopMatch("b")        // "bell"
	words, err := t.TopKMatches("b", 2) // ["bell", "bat"]

Edges are labelled with lower-cased runes, so prefixes match regardless of case
and every spelling of a word ("Bat", "bat") hangs off the same node. Weights are
compared at full precision.

A Trie is safe for concurrent queries as long as nobody calls Add. Callers that
keep adding words after construction must serialize writers and readers.
*/
package trie

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/bastiangx/wordrank/pkg/term"
)

// ErrCorruptBound is returned when a node's subtree bound is not realized by
// the node itself or by any child. Add never produces such a trie.
var ErrCorruptBound = errors.New("subtree bound not realized")

const root int32 = 0

type edge struct {
	char  rune
	child int32
}

type spelling struct {
	word   string
	weight float64
}

type node struct {
	char      rune // lower-cased
	parent    int32
	edges     []edge     // sorted by char
	words     []spelling // sorted by word
	weight    float64    // heaviest spelling
	maxWeight float64
}

func (n *node) isWord() bool { return len(n.words) > 0 }

// heaviest returns the first spelling carrying the node's weight.
func (n *node) heaviest() string {
	for _, s := range n.words {
		if s.weight == n.weight {
			return s.word
		}
	}
	return ""
}

// Trie is a weighted prefix tree stored as an arena of nodes.
type Trie struct {
	nodes  []node
	words  int
	policy Policy
}

// New builds a trie from words[i] with weights[i]. A word listed twice keeps
// its last weight.
func New(words []string, weights []float64, opts ...Option) (*Trie, error) {
	terms, err := term.FromSlices(words, weights)
	if err != nil {
		return nil, err
	}
	t := newTrie(opts...)
	for _, tm := range terms {
		t.insert(tm)
	}
	return t, nil
}

func newTrie(opts ...Option) *Trie {
	t := &Trie{
		nodes: []node{{parent: -1, maxWeight: math.Inf(-1)}},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Len returns the number of distinct words. Spellings that differ only in case
// count separately.
func (t *Trie) Len() int { return t.words }

// Nodes returns the number of nodes, root included.
func (t *Trie) Nodes() int { return len(t.nodes) }

// Policy returns the ordering used by TopKMatches.
func (t *Trie) Policy() Policy { return t.policy }

// Add inserts word with weight, or overwrites the weight of an existing word.
func (t *Trie) Add(word string, weight float64) error {
	tm, err := term.New(word, weight)
	if err != nil {
		return err
	}
	t.insert(tm)
	return nil
}

func (t *Trie) insert(tm term.Term) {
	word, weight := tm.Word(), tm.Weight()

	cur := root
	for _, ch := range word {
		t.raise(cur, weight)
		cur = t.childOrCreate(cur, unicode.ToLower(ch), weight)
	}

	n := &t.nodes[cur]
	had, old := n.isWord(), n.weight
	i, found := slices.BinarySearchFunc(n.words, word, func(s spelling, w string) int {
		return strings.Compare(s.word, w)
	})
	if found {
		n.words[i].weight = weight
	} else {
		n.words = slices.Insert(n.words, i, spelling{word: word, weight: weight})
		t.words++
	}
	n.weight = math.Inf(-1)
	for _, s := range n.words {
		n.weight = max(n.weight, s.weight)
	}
	t.raise(cur, n.weight)

	if had && n.weight < old {
		t.recompute(cur)
	}
}

func (t *Trie) raise(n int32, weight float64) {
	if t.nodes[n].maxWeight < weight {
		t.nodes[n].maxWeight = weight
	}
}

func (t *Trie) childOrCreate(parent int32, ch rune, weight float64) int32 {
	edges := t.nodes[parent].edges
	i, found := slices.BinarySearchFunc(edges, ch, func(e edge, r rune) int {
		return int(e.char) - int(r)
	})
	if found {
		return edges[i].child
	}

	child := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{char: ch, parent: parent, maxWeight: weight})
	t.nodes[parent].edges = slices.Insert(t.nodes[parent].edges, i, edge{char: ch, child: child})
	return child
}

// recompute restores exact bounds from n up to the root after a word's
// weight was lowered. It stops at the first ancestor whose bound is unchanged.
func (t *Trie) recompute(n int32) {
	for n >= 0 {
		nd := &t.nodes[n]
		bound := math.Inf(-1)
		if nd.isWord() {
			bound = nd.weight
		}
		for _, e := range nd.edges {
			bound = max(bound, t.nodes[e.child].maxWeight)
		}
		if bound == nd.maxWeight {
			return
		}
		nd.maxWeight = bound
		n = nd.parent
	}
}

// find returns the node reached by spelling prefix from the root, ignoring
// case.
func (t *Trie) find(prefix string) (int32, bool) {
	cur := root
	for _, ch := range prefix {
		ch = unicode.ToLower(ch)
		edges := t.nodes[cur].edges
		i, found := slices.BinarySearchFunc(edges, ch, func(e edge, r rune) int {
			return int(e.char) - int(r)
		})
		if !found {
			return 0, false
		}
		cur = edges[i].child
	}
	return cur, true
}

// TopMatch returns the heaviest word starting with prefix, or "" if none does.
// Among words of equal weight the first in term.FoldedOrder wins.
func (t *Trie) TopMatch(prefix string) (string, error) {
	if err := term.ValidPrefix(prefix); err != nil {
		return "", err
	}
	cur, ok := t.find(prefix)
	if !ok {
		return "", nil
	}
	if !t.nodes[cur].isWord() && len(t.nodes[cur].edges) == 0 {
		return "", nil
	}

	for {
		nd := &t.nodes[cur]
		if nd.isWord() && nd.weight == nd.maxWeight {
			return nd.heaviest(), nil
		}
		next := int32(-1)
		for _, e := range nd.edges {
			if t.nodes[e.child].maxWeight == nd.maxWeight {
				next = e.child
				break
			}
		}
		if next < 0 {
			return "", fmt.Errorf("%w: below prefix %q", ErrCorruptBound, prefix)
		}
		cur = next
	}
}

// TopKMatches returns up to k words starting with prefix, ordered according to
// the trie's Policy.
func (t *Trie) TopKMatches(prefix string, k int) ([]string, error) {
	if err := term.ValidPrefix(prefix); err != nil {
		return nil, err
	}
	words := []string{}
	if k <= 0 {
		return words, nil
	}
	start, ok := t.find(prefix)
	if !ok {
		return words, nil
	}

	f := &frontier{}
	f.push(entry{node: start, priority: t.nodes[start].maxWeight, path: strings.Map(unicode.ToLower, prefix)})
	for f.Len() > 0 && len(words) < k {
		e := f.pop()
		if e.candidate {
			words = append(words, e.word)
			continue
		}
		nd := &t.nodes[e.node]
		for _, s := range nd.words {
			if t.policy == OrderByBound {
				if len(words) < k {
					words = append(words, s.word)
				}
				continue
			}
			f.push(entry{node: e.node, priority: s.weight, path: e.path, word: s.word, candidate: true})
		}
		for _, ed := range nd.edges {
			f.push(entry{
				node:     ed.child,
				priority: t.nodes[ed.child].maxWeight,
				path:     e.path + string(ed.char),
			})
		}
	}
	return words, nil
}
