package domain

import "strings"

const (
	// Wildcard matches every host in host_name, hostgroup_name and members lists.
	Wildcard = "*"

	negationPrefix = "!"
)

// SplitList is one include/exclude pair parsed from a comma-separated object list.
// Params: entries without "!" go to Include, "!"-prefixed entries (prefix removed) go to Exclude.
// Returns: ordered selector halves.
type SplitList struct {
	Include []string
	Exclude []string
}

// SplitSelector parses a comma-separated list like "web0, !web1, web2".
// Params: raw parameter value.
// Returns: include/exclude halves with whitespace trimmed and empty entries dropped.
func SplitSelector(raw string) SplitList {
	var out SplitList
	for _, part := range strings.Split(raw, ",") {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		if strings.HasPrefix(entry, negationPrefix) {
			out.Exclude = append(out.Exclude, entry[len(negationPrefix):])
			continue
		}
		out.Include = append(out.Include, entry)
	}
	return out
}

// splitParam parses an optional parameter.
// Params: raw value and presence flag.
// Returns: nil when the parameter is absent.
func splitParam(raw string, ok bool) *SplitList {
	if !ok {
		return nil
	}
	list := SplitSelector(raw)
	return &list
}

// containsString checks case-sensitive membership.
// Params: haystack list and expected value.
// Returns: true when value exists in list.
func containsString(values []string, expected string) bool {
	for _, value := range values {
		if value == expected {
			return true
		}
	}
	return false
}

// intersects reports whether any entry of a is present in b.
func intersects(a, b []string) bool {
	for _, value := range a {
		if containsString(b, value) {
			return true
		}
	}
	return false
}
