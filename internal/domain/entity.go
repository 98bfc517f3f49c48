package domain

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

const (
	// ParamUse lists templates an object inherits from.
	ParamUse = "use"
	// ParamTemplateName registers an object as a template under its value.
	ParamTemplateName = "name"
	// ParamRegister disables live registration when set to "0".
	ParamRegister = "register"

	appendMarker = "+"
)

// ErrCyclicTemplate is returned when a `use` chain re-enters an object still being resolved.
var ErrCyclicTemplate = errors.New("cyclic template reference")

// ResolutionState tracks how far inheritance has progressed for one object.
// Params: one of the State* constants.
// Returns: lifecycle stage used to keep resolution idempotent.
type ResolutionState int

const (
	// StateRaw holds parameters exactly as decoded from the object block.
	StateRaw ResolutionState = iota
	// StateInProgress marks an object whose templates are being merged right now.
	StateInProgress
	// StateTemplatesResolved holds inherited parameters with append markers still present.
	StateTemplatesResolved
	// StateFinalized holds inherited parameters with one leading append marker stripped.
	StateFinalized
)

// String returns state name for logs and errors.
func (s ResolutionState) String() string {
	switch s {
	case StateRaw:
		return "raw"
	case StateInProgress:
		return "in_progress"
	case StateTemplatesResolved:
		return "templates_resolved"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Params is the raw attribute mapping of one object definition.
type Params map[string]string

// TemplateLookup finds a template object by its template name.
// Params: template name from a `use` list.
// Returns: template entity and true, or false for undefined templates.
type TemplateLookup func(name string) (*Entity, bool)

// Entity is the common part of host and service definitions: parameters plus inheritance state.
// Params: raw parameter mapping and the key holding the object identity.
// Returns: lazily resolved parameter source.
type Entity struct {
	params  Params
	nameKey string
	state   ResolutionState
	uses    []string
	usesSet bool
}

// newEntity stores raw parameters in Raw state.
// Params: decoded parameters and identity key ("host_name", "service_description").
// Returns: unresolved entity.
func newEntity(params Params, nameKey string) Entity {
	if params == nil {
		params = Params{}
	}
	return Entity{params: params, nameKey: nameKey, state: StateRaw}
}

// Param returns one parameter value.
// Params: parameter key.
// Returns: value and presence flag.
func (e *Entity) Param(key string) (string, bool) {
	value, ok := e.params[key]
	return value, ok
}

// Params returns a copy of the current parameter mapping.
func (e *Entity) Params() Params {
	out := make(Params, len(e.params))
	for key, value := range e.params {
		out[key] = value
	}
	return out
}

// State returns current resolution state.
func (e *Entity) State() ResolutionState {
	return e.state
}

// Identity returns the object's own name parameter.
// Params: none.
// Returns: name and true, or false for nameless templates.
func (e *Entity) Identity() (string, bool) {
	return e.Param(e.nameKey)
}

// IsRegistered reports whether object is a live instance rather than a template.
// Params: none.
// Returns: true when a name is set and `register` is not "0".
func (e *Entity) IsRegistered() bool {
	if _, ok := e.Identity(); !ok {
		return false
	}
	if register, ok := e.Param(ParamRegister); ok && strings.TrimSpace(register) == "0" {
		return false
	}
	return true
}

// TemplateName returns the value of the `name` parameter used for template registration.
func (e *Entity) TemplateName() (string, bool) {
	return e.Param(ParamTemplateName)
}

// UsedTemplates returns template names from the `use` parameter, parsed once.
// Params: none.
// Returns: ordered template names; empty when `use` is absent.
func (e *Entity) UsedTemplates() []string {
	if !e.usesSet {
		e.usesSet = true
		if raw, ok := e.Param(ParamUse); ok {
			// template references have no exclude form
			e.uses = SplitSelector(raw).Include
		}
	}
	return e.uses
}

// MatchName checks object identity against an optional name pattern.
// Params: compiled pattern, nil meaning "any name".
// Returns: false for nameless objects, otherwise pattern result.
func (e *Entity) MatchName(pattern *NamePattern) bool {
	name, ok := e.Identity()
	if !ok {
		return false
	}
	if pattern == nil {
		return true
	}
	return pattern.Match(name)
}

// ResolveTemplates merges parameters of all used templates into this entity.
// Templates are processed from the last listed to the first and a key already set is kept,
// so for plain keys the last listed template wins; append values collect every template.
// Params: lookup for templates of the same object kind.
// Returns: resolved parameter mapping or ErrCyclicTemplate wrapped with the template chain;
// on error own parameters are restored and the entity is back in StateRaw.
func (e *Entity) ResolveTemplates(lookup TemplateLookup) (Params, error) {
	switch e.state {
	case StateTemplatesResolved, StateFinalized:
		return e.params, nil
	case StateInProgress:
		return nil, ErrCyclicTemplate
	}

	e.state = StateInProgress
	own := maps.Clone(e.params)
	uses := e.UsedTemplates()
	for i := len(uses) - 1; i >= 0; i-- {
		if lookup == nil {
			break
		}
		parent, ok := lookup(uses[i])
		if !ok {
			continue
		}
		inherited, err := parent.ResolveTemplates(lookup)
		if err != nil {
			e.params = own
			e.state = StateRaw
			return nil, fmt.Errorf("template %q: %w", uses[i], err)
		}
		for key, value := range inherited {
			e.inheritParam(key, value)
		}
	}
	e.state = StateTemplatesResolved
	return e.params, nil
}

// inheritParam adopts, appends, or ignores one inherited value.
// Params: parameter key and template value.
// Returns: mutation of own parameters; own non-append values always win.
func (e *Entity) inheritParam(key, value string) {
	current, ok := e.params[key]
	switch {
	case !ok:
		e.params[key] = value
	case strings.HasPrefix(current, appendMarker):
		e.params[key] = current + "," + value
	}
}

// Finalize strips one leading append marker from every own parameter.
// Params: none.
// Returns: no-op when already finalized.
func (e *Entity) Finalize() {
	if e.state == StateFinalized {
		return
	}
	for key, value := range e.params {
		e.params[key] = strings.TrimPrefix(value, appendMarker)
	}
	e.state = StateFinalized
}

// setup runs inheritance and finalization in order.
// Params: template lookup.
// Returns: true when this call performed the transition to Finalized.
func (e *Entity) setup(lookup TemplateLookup) (bool, error) {
	if e.state == StateFinalized {
		return false, nil
	}
	if _, err := e.ResolveTemplates(lookup); err != nil {
		name, _ := e.Identity()
		if name == "" {
			name, _ = e.TemplateName()
		}
		return false, fmt.Errorf("resolve %q: %w", name, err)
	}
	e.Finalize()
	return true, nil
}
