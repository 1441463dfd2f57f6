package suggest

import (
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type cacheEntry struct {
	words      []string
	limit      int
	accessTime int64
}

// ResultCache remembers ranked results per prefix. An entry computed for
// limit k also answers any smaller limit, and any limit at all once it holds
// fewer than k words. Prefixes are keyed lower-cased, as the indexes match them.
// Non-empty keys are indexed in a patricia trie so an inserted word can drop
// every cached prefix of itself.
type ResultCache struct {
	entries     map[string]*cacheEntry
	index       *patricia.Trie
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewResultCache returns a cache holding at most maxEntries prefixes.
func NewResultCache(maxEntries int) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]*cacheEntry, maxEntries),
		index:      patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

// Get returns the cached top-limit words for prefix.
func (rc *ResultCache) Get(prefix string, limit int) ([]string, bool) {
	prefix = foldKey(prefix)
	rc.mu.Lock()
	defer rc.mu.Unlock()

	e, ok := rc.entries[prefix]
	if !ok || (limit > e.limit && len(e.words) == e.limit) {
		rc.misses++
		return nil, false
	}
	rc.hits++
	e.accessTime = rc.nextAccessTime()

	n := min(limit, len(e.words))
	out := make([]string, n)
	copy(out, e.words)
	return out, true
}

// Put stores the top-limit words computed for prefix. A shorter list already
// covered by the existing entry is ignored.
func (rc *ResultCache) Put(prefix string, limit int, words []string) {
	if rc.maxEntries <= 0 || limit <= 0 {
		return
	}
	prefix = foldKey(prefix)
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if e, ok := rc.entries[prefix]; ok {
		if limit <= e.limit {
			return
		}
		e.words = append(e.words[:0:0], words...)
		e.limit = limit
		e.accessTime = rc.nextAccessTime()
		return
	}

	if len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[prefix] = &cacheEntry{
		words:      append([]string(nil), words...),
		limit:      limit,
		accessTime: rc.nextAccessTime(),
	}
	if prefix != "" {
		rc.index.Insert(patricia.Prefix(prefix), struct{}{})
	}
}

// Invalidate drops every cached prefix of word, the empty prefix included.
func (rc *ResultCache) Invalidate(word string) int {
	word = foldKey(word)
	rc.mu.Lock()
	defer rc.mu.Unlock()

	var stale []string
	err := rc.index.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes of %q: %v", word, err)
	}

	dropped := 0
	if _, ok := rc.entries[""]; ok {
		delete(rc.entries, "")
		dropped++
	}
	for _, p := range stale {
		rc.index.Delete(patricia.Prefix(p))
		delete(rc.entries, p)
		dropped++
	}
	if dropped > 0 {
		log.Debugf("Invalidated %d cached prefixes of '%s'", dropped, word)
	}
	return dropped
}

// Stats reports the cache size and hit counters.
func (rc *ResultCache) Stats() map[string]int {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return map[string]int{
		"cacheEntries":    len(rc.entries),
		"maxCacheEntries": rc.maxEntries,
		"cacheHits":       int(rc.hits),
		"cacheMisses":     int(rc.misses),
	}
}

func (rc *ResultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *ResultCache) evictLRU() {
	var oldest string
	var oldestTime int64 = 9223372036854775807
	found := false

	for prefix, e := range rc.entries {
		if e.accessTime < oldestTime {
			oldestTime = e.accessTime
			oldest = prefix
			found = true
		}
	}

	if found {
		delete(rc.entries, oldest)
		if oldest != "" {
			rc.index.Delete(patricia.Prefix(oldest))
		}
		log.Debugf("Evicted prefix '%s' from result cache", oldest)
	}
}

func foldKey(s string) string {
	return strings.Map(unicode.ToLower, s)
}
