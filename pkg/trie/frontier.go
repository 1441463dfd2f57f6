package trie

import (
	"container/heap"
	"strings"
)

// entry is either a subtree, keyed by its bound, or a word candidate, keyed by
// the word's own weight. path is the lower-cased spelling of the node.
type entry struct {
	node      int32
	priority  float64
	path      string
	word      string
	candidate bool
}

// frontier is a max-heap of entries. Equal priorities pop by path, then by
// word; no two entries share both, so the order is total.
type frontier []entry

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority > f[j].priority
	}
	if c := strings.Compare(f[i].path, f[j].path); c != 0 {
		return c < 0
	}
	return strings.Compare(f[i].word, f[j].word) < 0
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(entry)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	e := old[n-1]
	*f = old[:n-1]
	return e
}

func (f *frontier) push(e entry) { heap.Push(f, e) }

func (f *frontier) pop() entry { return heap.Pop(f).(entry) }
