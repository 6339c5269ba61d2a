package mcpserver

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// paginate returns items[offset:offset+limit]. A non-positive limit means
// cfg.ListLimit and no page is larger than cfg.MaxLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	limit = min(limit, cfg.MaxLimit, len(items)-offset)
	return items[offset : offset+limit]
}

// makeSlice is make([]T, 0, n), or nil for n == 0 so omitempty drops it.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// countBy counts items per key, largest group first and ties by key.
func countBy[T any](items []T, key func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for k, n := range counts {
		groups = append(groups, groupCount{Key: k, Count: n})
	}
	slices.SortFunc(groups, func(a, b groupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

func validateGroupBy(groupBy string, allowed []string) error {
	if groupBy == "" || slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, groupBy) }) {
		return nil
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// validateGlobPattern rejects malformed patterns up front so matchGlobName
// can ignore match errors.
func validateGlobPattern(pattern string) error {
	if !isGlob(pattern) {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchGlobName reports whether name matches pattern. An empty pattern
// matches everything and a pattern without metacharacters matches the whole
// name case-insensitively.
func matchGlobName(name, pattern string) bool {
	switch {
	case pattern == "":
		return true
	case !isGlob(pattern):
		return strings.EqualFold(name, pattern)
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}
