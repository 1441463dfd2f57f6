/*
Package server implements msgpack IPC for word completion.

Clients write msgpack maps to the server's stdin and read one msgpack map per
request back from stdout. Requests are processed one at a time, in order, and
every response carries the request ID.

# IPC

A completion request names a prefix and an optional limit:

	{"id": "req_001", "p": "be", "l": 5}

The server answers with the suggestions ranked by weight, heaviest first.
"r" is the 1-based rank, "f" the weight and "t" the time spent in microseconds:

	{"id": "req_001", "s": [{"w": "bell", "r": 1, "f": 4}, {"w": "bat", "r": 2, "f": 2}], "c": 2, "t": 12}

Setting "top" asks for the single heaviest completion only. An omitted "l"
uses the configured default limit, and limits above the configured maximum are
capped. A request without "p" has no prefix at all and is rejected; an empty
"p" matches every word.

Failures carry a message and an HTTP-like code, 400 for bad input and 500 for
anything else:

	{"id": "req_002", "e": "missing prefix", "c": 400}

# Actions

Requests with an "action" field manage the server:

	{"id": "a1", "action": "health"}
	{"id": "a2", "action": "stats"}
	{"id": "a3", "action": "add", "w": "bee", "f": 9}

"add" inserts or re-weights a word and only works on indexes that accept
insertions.
*/
package server

// Actions understood by the server. An empty action is a completion.
const (
	ActionComplete = "complete"
	ActionHealth   = "health"
	ActionStats    = "stats"
	ActionAdd      = "add"
)

// Request is any message a client can send.
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"action,omitempty"`
	Prefix *string  `msgpack:"p,omitempty"`
	Limit  int      `msgpack:"l,omitempty"`
	Top    bool     `msgpack:"top,omitempty"`
	Word   string   `msgpack:"w,omitempty"`
	Weight *float64 `msgpack:"f,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word   string  `msgpack:"w"`
	Rank   uint16  `msgpack:"r"`
	Weight float64 `msgpack:"f"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatusResponse answers health and add actions.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// StatsResponse answers the stats action.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Index string         `msgpack:"index"`
	Stats map[string]int `msgpack:"stats"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
