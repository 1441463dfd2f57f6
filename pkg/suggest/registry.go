package suggest

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bastiangx/wordrank/pkg/binsearch"
	"github.com/bastiangx/wordrank/pkg/trie"
)

// ErrIndexNotFound is returned by Build for an unregistered index name.
var ErrIndexNotFound = errors.New("index not found")

// Options carries the settings a Builder may use. Builders ignore what does
// not apply to them.
type Options struct {
	// TriePolicy orders trie TopKMatches results.
	TriePolicy trie.Policy
}

// Builder constructs an Autocompletor from a vocabulary.
type Builder func(words []string, weights []float64, opts Options) (Autocompletor, error)

var builders = make(map[string]Builder)

func init() {
	Register("trie", func(words []string, weights []float64, opts Options) (Autocompletor, error) {
		return trie.New(words, weights, trie.WithPolicy(opts.TriePolicy))
	})
	Register("binsearch", func(words []string, weights []float64, _ Options) (Autocompletor, error) {
		return binsearch.New(words, weights)
	})
}

// Register adds a named builder. Names are case-insensitive; registering an
// existing name replaces it. Not safe for use after init.
func Register(name string, b Builder) {
	builders[strings.ToLower(name)] = b
}

// Indexes lists the registered index names in sorted order.
func Indexes() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the index registered under name.
func Build(name string, words []string, weights []float64, opts Options) (Autocompletor, error) {
	b, ok := builders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	return b(words, weights, opts)
}
