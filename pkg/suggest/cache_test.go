package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCacheLimits(t *testing.T) {
	rc := NewResultCache(8)
	rc.Put("b", 3, []string{"bell", "bat", "boy"})

	got, ok := rc.Get("b", 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"bell", "bat"}, got)

	_, ok = rc.Get("b", 4)
	assert.False(t, ok, "three words for limit three may hide a fourth")

	rc.Put("a", 5, []string{"air"})
	got, ok = rc.Get("a", 50)
	assert.True(t, ok, "fewer words than the limit means the list is complete")
	assert.Equal(t, []string{"air"}, got)

	rc.Put("b", 2, []string{"bell", "bat"})
	got, ok = rc.Get("b", 3)
	assert.True(t, ok, "a smaller put does not shrink an entry")
	assert.Len(t, got, 3)
}

func TestResultCacheInvalidate(t *testing.T) {
	rc := NewResultCache(8)
	for _, p := range []string{"", "b", "be", "bel", "bo", "a"} {
		rc.Put(p, 1, []string{"x"})
	}

	assert.Equal(t, 3, rc.Invalidate("bee"))

	for _, p := range []string{"", "b", "be"} {
		_, ok := rc.Get(p, 1)
		assert.False(t, ok, "prefix %q", p)
	}
	for _, p := range []string{"bel", "bo", "a"} {
		_, ok := rc.Get(p, 1)
		assert.True(t, ok, "prefix %q", p)
	}
	assert.Equal(t, 3, rc.Stats()["cacheEntries"])
}

func TestResultCacheIgnoresCase(t *testing.T) {
	rc := NewResultCache(8)
	rc.Put("Be", 2, []string{"bell", "Bee"})

	got, ok := rc.Get("bE", 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"bell", "Bee"}, got)

	assert.Equal(t, 1, rc.Invalidate("BEER"))
	_, ok = rc.Get("be", 1)
	assert.False(t, ok)
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	rc := NewResultCache(2)
	rc.Put("a", 1, []string{"air"})
	rc.Put("b", 1, []string{"bell"})
	rc.Get("a", 1)
	rc.Put("c", 1, []string{"cat"})

	_, ok := rc.Get("b", 1)
	assert.False(t, ok)
	_, ok = rc.Get("a", 1)
	assert.True(t, ok)
	_, ok = rc.Get("c", 1)
	assert.True(t, ok)
	assert.Equal(t, 0, rc.Invalidate("bell"))
}

func TestResultCacheDisabled(t *testing.T) {
	rc := NewResultCache(0)
	rc.Put("a", 1, []string{"air"})
	_, ok := rc.Get("a", 1)
	assert.False(t, ok)
}
