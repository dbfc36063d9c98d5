package domain

import "strings"

// foldLookup looks up name case-insensitively in a pre-built table.
// Every enum's Parse function uses this so filter-document values are
// matched the same way the filter compiler lowercase-folds them.
func foldLookup[T any](table map[string]T, name string) (T, bool) {
	v, ok := table[strings.ToLower(name)]
	return v, ok
}

func buildIndex[T ~int](names []string) map[string]T {
	idx := make(map[string]T, len(names))
	for i, n := range names {
		idx[strings.ToLower(n)] = T(i)
	}
	return idx
}
