package suggest

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bastiangx/wordrank/pkg/term"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// ErrReadOnly is returned by AddWord when the index cannot take new words.
var ErrReadOnly = errors.New("index is read-only")

// Suggestion is a ranked word with its weight.
type Suggestion struct {
	Word   string
	Weight float64
}

// Completer serves queries from an Autocompletor through a ResultCache and
// keeps the word weights needed to report them. Queries may run concurrently;
// AddWord excludes them while it mutates the index.
type Completer struct {
	index     Autocompletor
	kind      string
	cache     *ResultCache
	group     singleflight.Group
	weights   map[string]float64
	maxWeight float64
	queries   atomic.Int64
	mu        sync.RWMutex
}

// NewCompleter builds the index registered as kind from the vocabulary.
// cacheSize <= 0 disables the result cache.
func NewCompleter(kind string, words []string, weights []float64, opts Options, cacheSize int) (*Completer, error) {
	index, err := Build(kind, words, weights, opts)
	if err != nil {
		return nil, err
	}

	c := &Completer{
		index:   index,
		kind:    kind,
		weights: make(map[string]float64, len(words)),
	}
	if cacheSize > 0 {
		c.cache = NewResultCache(cacheSize)
	}
	for i, w := range words {
		c.weights[w] = weights[i]
		c.maxWeight = max(c.maxWeight, weights[i])
	}
	log.Debugf("Built %s index: %d words, max weight %.1f", kind, len(c.weights), c.maxWeight)
	return c, nil
}

// Kind returns the registry name of the underlying index.
func (c *Completer) Kind() string { return c.kind }

// Complete returns up to limit suggestions for prefix, heaviest first.
func (c *Completer) Complete(prefix string, limit int) ([]Suggestion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.queries.Add(1)

	words, err := c.topK(prefix, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{Word: w, Weight: c.weights[w]}
	}
	return suggestions, nil
}

func (c *Completer) topK(prefix string, limit int) ([]string, error) {
	if err := term.ValidPrefix(prefix); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []string{}, nil
	}
	if c.cache != nil {
		if words, ok := c.cache.Get(prefix, limit); ok {
			return words, nil
		}
	}
	// concurrent misses for the same query share one index walk
	key := strconv.Itoa(limit) + ":" + prefix
	v, err, _ := c.group.Do(key, func() (any, error) {
		words, err := c.index.TopKMatches(prefix, limit)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Put(prefix, limit, words)
		}
		return words, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Top returns the heaviest word starting with prefix, or "" if none does.
func (c *Completer) Top(prefix string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.queries.Add(1)

	// not served from the cache: under trie.OrderByBound the first ranked word
	// is not always the heaviest
	return c.index.TopMatch(prefix)
}

// AddWord inserts or re-weights a word when the index supports it, dropping
// every cached result the word could change.
func (c *Completer) AddWord(word string, weight float64) error {
	ins, ok := c.index.(Inserter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ins.Add(word, weight); err != nil {
		return err
	}
	c.weights[word] = weight
	c.maxWeight = max(c.maxWeight, weight)
	if c.cache != nil {
		c.cache.Invalidate(word)
	}
	return nil
}

// Weight returns the weight of word and whether it is indexed.
func (c *Completer) Weight(word string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.weights[word]
	return w, ok
}

// Stats returns word, query and cache counters.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]int{
		"totalWords": len(c.weights),
		"maxWeight":  int(c.maxWeight),
		"queries":    int(c.queries.Load()),
	}
	if c.cache != nil {
		for k, v := range c.cache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
