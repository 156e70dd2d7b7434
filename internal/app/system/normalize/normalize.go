// Package normalize trims and canonicalizes user-supplied strings before
// they are validated or stored.
package normalize

import "strings"

// Email trims whitespace and lowercases.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace and collapses internal runs of spaces. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims whitespace and lowercases.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims whitespace from a query string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Tags splits comma-separated tag input, trims each entry and drops empties
// and duplicates. Each element of in may itself contain commas.
func Tags(in ...string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, raw := range in {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
