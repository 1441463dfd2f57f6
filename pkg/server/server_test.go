package server

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/bastiangx/wordrank/pkg/config"
	"github.com/bastiangx/wordrank/pkg/metrics"
	"github.com/bastiangx/wordrank/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		DefaultLimit: 2,
		MaxLimit:     3,
		MinPrefix:    0,
		MaxPrefix:    5,
	}
}

func newCompleter(t *testing.T, kind string) *suggest.Completer {
	t.Helper()
	c, err := suggest.NewCompleter(kind, []string{"air", "bat", "bell", "boy"}, []float64{3, 2, 4, 1}, suggest.Options{}, 16)
	require.NoError(t, err)
	return c
}

// roundTrip feeds the encoded requests to a server and returns the decoded
// responses as generic maps.
func roundTrip(t *testing.T, s func(r io.Reader, w io.Writer) *Server, requests ...any) []map[string]any {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	require.NoError(t, s(&in, &out).Start(context.Background()))

	var responses []map[string]any
	dec := msgpack.NewDecoder(&out)
	for out.Len() > 0 {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		responses = append(responses, m)
	}
	return responses
}

func serverFor(t *testing.T, kind string, cfg config.ServerConfig, m *metrics.Metrics) func(io.Reader, io.Writer) *Server {
	c := newCompleter(t, kind)
	return func(r io.Reader, w io.Writer) *Server {
		return NewServer(c, cfg, m, r, w)
	}
}

func decodeCompletion(t *testing.T, m map[string]any) CompletionResponse {
	t.Helper()
	b, err := msgpack.Marshal(m)
	require.NoError(t, err)
	var resp CompletionResponse
	require.NoError(t, msgpack.Unmarshal(b, &resp))
	return resp
}

func TestCompletion(t *testing.T) {
	for _, kind := range suggest.Indexes() {
		t.Run(kind, func(t *testing.T) {
			out := roundTrip(t, serverFor(t, kind, testConfig(), nil),
				map[string]any{"id": "1", "p": "b", "l": 2},
				map[string]any{"id": "2", "p": "B"},
				map[string]any{"id": "3", "p": "", "l": 50},
				map[string]any{"id": "4", "p": "z"},
				map[string]any{"id": "5", "p": "b", "top": true},
			)
			require.Len(t, out, 5)

			first := decodeCompletion(t, out[0])
			assert.Equal(t, "1", first.ID)
			assert.Equal(t, 2, first.Count)
			assert.Equal(t, []CompletionSuggestion{
				{Word: "bell", Rank: 1, Weight: 4},
				{Word: "bat", Rank: 2, Weight: 2},
			}, first.Suggestions)

			second := decodeCompletion(t, out[1])
			assert.Equal(t, 2, second.Count, "default limit")

			third := decodeCompletion(t, out[2])
			assert.Equal(t, 3, third.Count, "limit capped at max_limit")
			assert.Equal(t, "bell", third.Suggestions[0].Word)

			fourth := decodeCompletion(t, out[3])
			assert.Equal(t, 0, fourth.Count)
			assert.Empty(t, fourth.Suggestions)

			fifth := decodeCompletion(t, out[4])
			assert.Equal(t, []CompletionSuggestion{{Word: "bell", Rank: 1, Weight: 4}}, fifth.Suggestions)
		})
	}
}

func TestInvalidRequests(t *testing.T) {
	m := metrics.New()
	out := roundTrip(t, serverFor(t, "trie", testConfig(), m),
		map[string]any{"id": "absent"},
		map[string]any{"id": "nil", "p": nil},
		map[string]any{"id": "long", "p": "bellow"},
		map[string]any{"id": "neg", "p": "b", "l": -1},
		map[string]any{"id": "utf8", "p": "\xff"},
		"not a map",
		map[string]any{"id": "after", "p": "a"},
	)
	require.Len(t, out, 7)

	for i, id := range []string{"absent", "nil", "long", "neg", "utf8", ""} {
		assert.Equal(t, id, out[i]["id"])
		assert.EqualValues(t, 400, out[i]["c"], id)
		assert.NotEmpty(t, out[i]["e"], id)
	}
	assert.Equal(t, []CompletionSuggestion{{Word: "air", Rank: 1, Weight: 3}}, decodeCompletion(t, out[6]).Suggestions)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("trie", metrics.ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueriesTotal.WithLabelValues("trie", metrics.ResultOK)))
}

func TestMinPrefixAndFilter(t *testing.T) {
	cfg := testConfig()
	cfg.MinPrefix = 1
	cfg.EnableFilter = true

	out := roundTrip(t, serverFor(t, "binsearch", cfg, nil),
		map[string]any{"id": "empty", "p": ""},
		map[string]any{"id": "digits", "p": "123"},
		map[string]any{"id": "ok", "p": "a"},
	)
	require.Len(t, out, 3)
	assert.EqualValues(t, 400, out[0]["c"])
	assert.Equal(t, 0, decodeCompletion(t, out[1]).Count)
	assert.Equal(t, 1, decodeCompletion(t, out[2]).Count)
}

func TestActions(t *testing.T) {
	m := metrics.New()
	out := roundTrip(t, serverFor(t, "trie", testConfig(), m),
		map[string]any{"id": "h", "action": "health"},
		map[string]any{"id": "a", "action": "add", "w": "bee", "f": 9},
		map[string]any{"id": "q", "p": "be"},
		map[string]any{"id": "bad", "action": "add", "w": "bee", "f": -1},
		map[string]any{"id": "noweight", "action": "add", "w": "bee"},
		map[string]any{"id": "s", "action": "stats"},
		map[string]any{"id": "x", "action": "reload"},
	)
	require.Len(t, out, 7)

	assert.Equal(t, "ok", out[0]["status"])
	assert.Equal(t, "ok", out[1]["status"])

	q := decodeCompletion(t, out[2])
	assert.Equal(t, []string{"bee", "bell"}, []string{q.Suggestions[0].Word, q.Suggestions[1].Word})

	assert.EqualValues(t, 400, out[3]["c"])
	assert.EqualValues(t, 400, out[4]["c"])

	var stats StatsResponse
	b, err := msgpack.Marshal(out[5])
	require.NoError(t, err)
	require.NoError(t, msgpack.Unmarshal(b, &stats))
	assert.Equal(t, "trie", stats.Index)
	assert.Equal(t, 5, stats.Stats["totalWords"])

	assert.EqualValues(t, 400, out[6]["c"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WordsAdded))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.VocabularySize))
}

func TestAddOnReadOnlyIndex(t *testing.T) {
	out := roundTrip(t, serverFor(t, "binsearch", testConfig(), nil),
		map[string]any{"id": "a", "action": "add", "w": "bee", "f": 9},
	)
	require.Len(t, out, 1)
	assert.EqualValues(t, 400, out[0]["c"])
	assert.Contains(t, out[0]["e"], "read-only")
}

func TestTruncatedStream(t *testing.T) {
	b, err := msgpack.Marshal(map[string]any{"id": "1", "p": "b"})
	require.NoError(t, err)

	var out bytes.Buffer
	s := NewServer(newCompleter(t, "trie"), testConfig(), nil, bytes.NewReader(b[:len(b)-1]), &out)
	assert.Error(t, s.Start(context.Background()))
}

func TestCancelledContext(t *testing.T) {
	b, err := msgpack.Marshal(map[string]any{"id": "1", "p": "b"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewServer(newCompleter(t, "trie"), testConfig(), nil, bytes.NewReader(b), &out)
	require.NoError(t, s.Start(ctx))
	assert.Zero(t, out.Len())
}
