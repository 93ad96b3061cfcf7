package browser

import "strings"

// Filter keeps the entries whose name starts with query, ignoring case. An
// empty query keeps everything. Order is preserved.
func Filter(entries []Entry, query string) []Entry {
	out := make([]Entry, 0, len(entries))
	if query == "" {
		return append(out, entries...)
	}

	q := strings.ToLower(query)
	for _, e := range entries {
		if strings.HasPrefix(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}
