// Package suggest is the service layer over the prefix indexes: the shared
// query contract, a registry of index builders, a prefix-keyed result cache and
// the Completer that ties them together for the server and CLI.
package suggest

// Autocompletor is the query contract shared by every index.
type Autocompletor interface {
	// TopMatch returns the heaviest word starting with prefix, or "" if none does.
	TopMatch(prefix string) (string, error)

	// TopKMatches returns up to k words starting with prefix, heaviest first.
	// k <= 0 yields an empty slice.
	TopKMatches(prefix string, k int) ([]string, error)
}

// Inserter is implemented by indexes that accept words after construction.
type Inserter interface {
	Add(word string, weight float64) error
}
