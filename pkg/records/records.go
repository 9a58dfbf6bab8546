// Package records defines the loose row representation passed between the
// parser and the cleaning stages. A Record is one raw source row keyed by
// normalized (lower-cased, trimmed) column name; values are whatever the
// parser produced, typically strings or nil for absent cells.
package records

import "strings"

// Record is a single raw row. No invariants: fields may be missing, empty,
// or garbled, and typing is deferred to the normalizer. Consumers index the
// map directly: presence of a key is meaningful on its own (a present but
// nil cell still claims its column), so no accessor hides the distinction.
type Record map[string]any

// Key normalizes a raw column name into the form used for Record keys:
// whitespace-trimmed and lower-cased.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
