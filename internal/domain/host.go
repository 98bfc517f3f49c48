package domain

const (
	// ParamHostName is the identity key of host objects and the host selector of services.
	ParamHostName = "host_name"
	// ParamHostgroups lists groups a host declares itself a member of.
	ParamHostgroups = "hostgroups"
)

// Host is a monitored host definition with its derived group membership.
// Params: raw host block parameters.
// Returns: entity whose groups are available after Setup.
type Host struct {
	Entity
	groups []string
}

// NewHost creates an unresolved host.
// Params: decoded host block parameters.
// Returns: host in Raw state.
func NewHost(params Params) *Host {
	return &Host{Entity: newEntity(params, ParamHostName)}
}

// Name returns host_name, or empty string for templates.
func (h *Host) Name() string {
	name, _ := h.Identity()
	return name
}

// Setup resolves templates, finalizes parameters and derives groups, once.
// Params: host template lookup.
// Returns: cyclic template error.
func (h *Host) Setup(lookup TemplateLookup) error {
	done, err := h.setup(lookup)
	if err != nil {
		return err
	}
	if done {
		h.resolveGroups()
	}
	return nil
}

// resolveGroups derives groups from the hostgroups parameter; exclusions there are ignored.
func (h *Host) resolveGroups() {
	h.groups = nil
	if list := splitParam(h.Param(ParamHostgroups)); list != nil {
		h.groups = append(h.groups, list.Include...)
	}
}

// Groups returns hostgroup names the host belongs to, in insertion order.
func (h *Host) Groups() []string {
	return h.groups
}

// AddHostgroup appends a group found through hostgroup membership. Duplicates are kept.
// Params: hostgroup name.
// Returns: none.
func (h *Host) AddHostgroup(name string) {
	h.groups = append(h.groups, name)
}

// MatchesService checks whether a service with given selectors is attached to this host.
// Includes are evaluated first and exclusions last, so an exclusion always wins.
// Nil lists mean "not set"; a service with no include list matches no host.
// Params: service host_name and hostgroup_name halves.
// Returns: true when the service applies to the host.
func (h *Host) MatchesService(includeHosts, excludeHosts, includeGroups, excludeGroups []string) bool {
	name := h.Name()
	matched := false
	if intersects(includeGroups, h.groups) || containsString(includeGroups, Wildcard) {
		matched = true
	}
	if containsString(includeHosts, name) || containsString(includeHosts, Wildcard) {
		matched = true
	}
	if intersects(excludeGroups, h.groups) {
		matched = false
	}
	if containsString(excludeHosts, name) {
		matched = false
	}
	return matched
}

// Serves is MatchesService applied to a set-up service.
// Params: service after Setup.
// Returns: true when the service applies to the host.
func (h *Host) Serves(service *Service) bool {
	sel := service.Selectors()
	return h.MatchesService(sel.IncludeHosts, sel.ExcludeHosts, sel.IncludeGroups, sel.ExcludeGroups)
}
