package peers

import "strings"

// lineBreaks normalises CRLF and lone CR to LF before splitting.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse splits text into whitespace-trimmed, non-empty lines.
//
// Order and duplicates are preserved. Empty or whitespace-only input
// returns nil.
func Parse(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var ids []string
	for _, line := range strings.Split(lineBreaks.Replace(text), "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Unique returns the distinct identifiers in first-occurrence order.
func Unique(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
