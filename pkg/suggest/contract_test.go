package suggest

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/bastiangx/wordrank/pkg/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vocab builds n distinct lower-case words over a small alphabet, so that
// prefixes share long runs and many words prefix other words.
func vocab(seed int64, n int) ([]string, []float64) {
	return vocabOver("abc", seed, n)
}

// mixedVocab also uses upper case, so many words differ only in case.
func mixedVocab(seed int64, n int) ([]string, []float64) {
	return vocabOver("aAbBc", seed, n)
}

func vocabOver(alphabet string, seed int64, n int) ([]string, []float64) {
	rng := rand.New(rand.NewSource(seed))
	seen := make(map[string]bool, n)
	words := make([]string, 0, n)
	weights := make([]float64, 0, n)
	for len(words) < n {
		var sb strings.Builder
		for range 1 + rng.Intn(6) {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		w := sb.String()
		if seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
		weights = append(weights, float64(rng.Intn(50)))
	}
	return words, weights
}

func prefixesOf(words []string) []string {
	set := map[string]bool{"": true, "zz": true, "ac": true, "A": true, "bA": true}
	for _, w := range words {
		for i := 1; i <= len(w); i++ {
			set[w[:i]] = true
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func hasPrefixFold(word, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(word), strings.ToLower(prefix))
}

func buildAll(t *testing.T, words []string, weights []float64) map[string]Autocompletor {
	t.Helper()
	out := make(map[string]Autocompletor)
	for _, kind := range Indexes() {
		ac, err := Build(kind, words, weights, Options{})
		require.NoError(t, err)
		out[kind] = ac
	}
	bound, err := Build("trie", words, weights, Options{TriePolicy: trie.OrderByBound})
	require.NoError(t, err)
	out["trie-bound"] = bound
	return out
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"binsearch", "trie"}, Indexes())

	_, err := Build("btree", []string{"a"}, []float64{1}, Options{})
	assert.ErrorIs(t, err, ErrIndexNotFound)

	ac, err := Build("TRIE", []string{"a"}, []float64{1}, Options{})
	require.NoError(t, err)
	_, ok := ac.(Inserter)
	assert.True(t, ok)
}

func TestLiteralScenarioAllIndexes(t *testing.T) {
	all := buildAll(t, []string{"air", "bat", "bell", "boy"}, []float64{3, 2, 4, 1})
	for name, ac := range all {
		t.Run(name, func(t *testing.T) {
			got, err := ac.TopKMatches("b", 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"bell", "bat"}, got)

			got, err = ac.TopKMatches("a", 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"air"}, got)

			top, err := ac.TopMatch("b")
			require.NoError(t, err)
			assert.Equal(t, "bell", top)

			got, err = ac.TopKMatches("z", 3)
			require.NoError(t, err)
			assert.Empty(t, got)

			top, err = ac.TopMatch("z")
			require.NoError(t, err)
			assert.Empty(t, top)
		})
	}
}

func TestMixedDepthCrossCheck(t *testing.T) {
	all := buildAll(t, []string{"a", "ab"}, []float64{1, 10})

	want := map[string][]string{
		"binsearch":  {"ab", "a"},
		"trie":       {"ab", "a"},
		"trie-bound": {"a", "ab"},
	}
	for name, ac := range all {
		got, err := ac.TopKMatches("a", 2)
		require.NoError(t, err)
		assert.Equal(t, want[name], got, name)

		top, err := ac.TopMatch("a")
		require.NoError(t, err)
		assert.Equal(t, "ab", top, name)
	}
}

func TestMixedCaseScenario(t *testing.T) {
	all := buildAll(t, []string{"A", "B", "C", "a", "b", "c", "Bat"}, []float64{1, 2, 9, 4, 5, 6, 3})
	for name, ac := range all {
		got, err := ac.TopKMatches("b", 10)
		require.NoError(t, err, name)
		if name == "trie-bound" {
			assert.ElementsMatch(t, []string{"b", "Bat", "B"}, got, name)
		} else {
			assert.Equal(t, []string{"b", "Bat", "B"}, got, name)
		}

		top, err := ac.TopMatch("B")
		require.NoError(t, err, name)
		assert.Equal(t, "b", top, name)

		got, err = ac.TopKMatches("BA", 10)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"Bat"}, got, name)
	}
}

func TestDuplicateWordsKeepLastWeight(t *testing.T) {
	all := buildAll(t, []string{"a", "a", "ab"}, []float64{1, 5, 3})
	for name, ac := range all {
		got, err := ac.TopKMatches("a", 3)
		require.NoError(t, err, name)
		assert.Equal(t, []string{"a", "ab"}, got, name)
	}

	c, err := NewCompleter("binsearch", []string{"a", "a"}, []float64{1, 5}, Options{}, 0)
	require.NoError(t, err)
	got, err := c.Complete("a", 5)
	require.NoError(t, err)
	assert.Equal(t, []Suggestion{{Word: "a", Weight: 5}}, got)
}

func TestFractionalWeightsRankDifferently(t *testing.T) {
	all := buildAll(t, []string{"ba", "bb"}, []float64{2.1, 2.9})

	// the sorted array ranks by integer weight, the trie at full precision
	want := map[string][]string{
		"binsearch":  {"ba", "bb"},
		"trie":       {"bb", "ba"},
		"trie-bound": {"bb", "ba"},
	}
	for name, ac := range all {
		got, err := ac.TopKMatches("b", 2)
		require.NoError(t, err, name)
		assert.Equal(t, want[name], got, name)

		top, err := ac.TopMatch("b")
		require.NoError(t, err, name)
		assert.Equal(t, want[name][0], top, name)
	}
}

func TestIndexesAgree(t *testing.T) {
	vocabs := map[string]func(int64, int) ([]string, []float64){
		"lower": vocab,
		"mixed": mixedVocab,
	}
	for kind, gen := range vocabs {
		for _, seed := range []int64{1, 2, 3} {
			t.Run(fmt.Sprintf("%s/%d", kind, seed), func(t *testing.T) {
				indexesAgree(t, gen, seed)
			})
		}
	}
}

func indexesAgree(t *testing.T, gen func(int64, int) ([]string, []float64), seed int64) {
	words, weights := gen(seed, 300)
	all := buildAll(t, words, weights)
	weightOf := make(map[string]float64, len(words))
	for i, w := range words {
		weightOf[w] = weights[i]
	}

	for _, prefix := range prefixesOf(words) {
		var matches int
		for _, w := range words {
			if hasPrefixFold(w, prefix) {
				matches++
			}
		}

		wantTop, err := all["binsearch"].TopMatch(prefix)
		require.NoError(t, err)

		for _, k := range []int{1, 2, 5, 40, 1000} {
			ref, err := all["binsearch"].TopKMatches(prefix, k)
			require.NoError(t, err)
			require.Len(t, ref, min(k, matches))

			for name, ac := range all {
				msg := fmt.Sprintf("seed=%d index=%s prefix=%q k=%d", seed, name, prefix, k)
				got, err := ac.TopKMatches(prefix, k)
				require.NoError(t, err, msg)
				require.Len(t, got, len(ref), msg)

				for _, w := range got {
					assert.True(t, hasPrefixFold(w, prefix), msg)
				}
				if name == "trie-bound" {
					continue
				}
				// integer weights: both indexes break ties in folded order
				assert.Equal(t, ref, got, msg)
				for i := 1; i < len(got); i++ {
					assert.GreaterOrEqual(t, weightOf[got[i-1]], weightOf[got[i]], msg)
				}
			}
		}

		for name, ac := range all {
			top, err := ac.TopMatch(prefix)
			require.NoError(t, err)
			assert.Equal(t, wantTop, top, "index=%s prefix=%q", name, prefix)

			first, err := ac.TopKMatches(prefix, 1)
			require.NoError(t, err)
			if name != "trie-bound" {
				if top == "" {
					assert.Empty(t, first)
				} else {
					assert.Equal(t, []string{top}, first)
				}
			}
		}
	}
}

func TestBoundOrderReturnsSameSetForFullRange(t *testing.T) {
	for _, gen := range []func(int64, int) ([]string, []float64){vocab, mixedVocab} {
		words, weights := gen(9, 200)
		all := buildAll(t, words, weights)

		for _, prefix := range []string{"", "a", "ab", "cc", "B", "Ab"} {
			ref, err := all["binsearch"].TopKMatches(prefix, len(words))
			require.NoError(t, err)
			got, err := all["trie-bound"].TopKMatches(prefix, len(words))
			require.NoError(t, err)
			assert.ElementsMatch(t, ref, got, "prefix %q", prefix)
		}
	}
}
