// Package probe inspects the header of a candidate source file and reports
// which canonical field each column would resolve to under the alias table.
// Operators run it against a new source vintage before ingesting, so renamed
// or accented column spellings surface before a full run.
package probe

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"tripetl/internal/clean"
	"tripetl/pkg/records"
)

// Mapping pairs one source column with the canonical field it resolves to.
// Canonical is "" when no alias matches.
type Mapping struct {
	Source    string
	Folded    string
	Canonical string
}

// Headers reads the header row from r.
func Headers(r io.Reader, comma rune) ([]string, error) {
	cr := csv.NewReader(r)
	if comma != 0 {
		cr.Comma = comma
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("probe: read header: %w", err)
	}
	if len(hdr) > 0 {
		hdr[0] = strings.TrimPrefix(hdr[0], "\uFEFF")
	}
	return hdr, nil
}

// Fold strips diacritics and lower-cases a header name, so accented source
// spellings still match the ASCII alias table.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return records.Key(folded)
}

// MapHeaders resolves each header against the alias table. Resolution honors
// alias priority: when several source columns alias the same canonical field,
// only the highest-priority one maps and the rest report as shadowed by an
// empty Canonical.
func MapHeaders(headers []string) []Mapping {
	folded := make(map[string]int, len(headers)) // folded name -> header index
	for i, h := range headers {
		f := Fold(h)
		if _, dup := folded[f]; !dup {
			folded[f] = i
		}
	}

	canonicalFor := make(map[int]string, len(headers))
	for canonical, aliases := range clean.Aliases {
		for _, a := range aliases {
			if i, ok := folded[a]; ok {
				canonicalFor[i] = canonical
				break // first alias present wins
			}
		}
	}

	out := make([]Mapping, len(headers))
	for i, h := range headers {
		out[i] = Mapping{Source: h, Folded: Fold(h), Canonical: canonicalFor[i]}
	}
	return out
}
