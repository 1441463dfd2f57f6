package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuery(t *testing.T) {
	m := New()
	m.ObserveQuery("trie", ResultOK, time.Millisecond, 3)
	m.ObserveQuery("trie", ResultOK, time.Millisecond, 2)
	m.ObserveQuery("binsearch", ResultInvalid, time.Microsecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("trie", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("binsearch", ResultInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ResultsCount))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveQuery("trie", ResultOK, 0, 0) })
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.WordsAdded.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.WordsAdded))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.WordsAdded))

	n, err := testutil.GatherAndCount(b.Registry(), "wordrank_words_added_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.VocabularySize.Set(4)
	m.ObserveQuery("trie", ResultEmpty, time.Microsecond, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "wordrank_vocabulary_words 4")
	assert.Contains(t, body, `wordrank_queries_total{index="trie",result="zero_result"} 1`)
}

func TestServeStopsOnCancel(t *testing.T) {
	m := New()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.serveListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "wordrank_words_added_total"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
