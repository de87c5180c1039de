package source

import (
	"strings"
	"unicode"
)

// HeaderIndex maps a normalized column name to its position in a header row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row. When a name repeats,
// the last occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[HeaderKey(h)] = i
	}
	return idx
}

// Lookup returns the position of the named column.
func (h HeaderIndex) Lookup(name string) (int, bool) {
	i, ok := h[HeaderKey(name)]
	return i, ok
}

// HeaderKey normalizes a column name for matching. Case, spaces, underscores
// and hyphens are ignored, so "Unit Price USD", "UnitPriceUSD" and
// "unit_price_usd" are the same column.
func HeaderKey(s string) string {
	s = CleanCell(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}
