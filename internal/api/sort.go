package api

import (
	"strings"

	"catalog-service/internal/store"
)

// ParseSortBy turns a "field:asc,field2:desc" request string into an ordered
// sort specification. Segments are trimmed and empty ones dropped; duplicate
// field names (compared case-insensitively) collapse to their first
// occurrence, which keeps its original casing; a missing or unrecognized
// direction token defaults to ascending. Unknown field names pass through;
// the store skips them.
func ParseSortBy(sortBy string) []store.SortKey {
	if strings.TrimSpace(sortBy) == "" {
		return nil
	}

	segments := strings.Split(sortBy, ",")
	keys := make([]store.SortKey, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))

	for _, segment := range segments {
		parts := splitAndTrim(segment, ":")
		if len(parts) == 0 {
			continue
		}
		lower := strings.ToLower(parts[0])
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		direction := store.SortAscending
		if len(parts) == 2 && (parts[1] == store.SortAscending || parts[1] == store.SortDescending) {
			direction = parts[1]
		}
		keys = append(keys, store.SortKey{Field: parts[0], Direction: direction})
	}
	return keys
}

func splitAndTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	parts := raw[:0]
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
