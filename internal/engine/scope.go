package engine

import "fmt"

// Scope selects which object kind a command applies to.
// Params: one of the Scope* constants.
// Returns: selector resolved from user input.
type Scope string

const (
	// ScopeHost applies a command to matched hosts only.
	ScopeHost Scope = "host"
	// ScopeService applies a command to matched host/service pairs only.
	ScopeService Scope = "service"
	// ScopeAll applies a command to hosts and host/service pairs.
	ScopeAll Scope = "all"
)

// ScopeNames lists selectors in the order they are offered to the operator.
func ScopeNames() []string {
	return []string{string(ScopeHost), string(ScopeService), string(ScopeAll)}
}

// ParseScope converts a canonical selector name.
// Params: full selector name.
// Returns: scope or error for unknown names.
func ParseScope(value string) (Scope, error) {
	switch Scope(value) {
	case ScopeHost, ScopeService, ScopeAll:
		return Scope(value), nil
	default:
		return "", fmt.Errorf("unsupported selector %q", value)
	}
}

// IncludesHosts reports whether host-level commands are emitted.
func (s Scope) IncludesHosts() bool {
	return s == ScopeHost || s == ScopeAll
}

// IncludesServices reports whether service-level commands are emitted.
func (s Scope) IncludesServices() bool {
	return s == ScopeService || s == ScopeAll
}
