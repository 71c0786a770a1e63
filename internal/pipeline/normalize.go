package pipeline

import "strings"

// NormalizeURLs trims whitespace, drops blank entries and removes exact
// duplicates. The first occurrence wins and order is preserved. Comparison is
// case-sensitive, so "https://a.com/X" and "https://a.com/x" are distinct.
func NormalizeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
