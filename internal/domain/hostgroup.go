package domain

// ParamMembers lists host names (or "*") belonging to a hostgroup.
const ParamMembers = "members"

// Hostgroup is an immutable named list of member hosts.
type Hostgroup struct {
	name    string
	hasName bool
	members []string
}

// NewHostgroup builds a hostgroup from its block parameters.
// Params: decoded hostgroup parameters; "!"-prefixed members are dropped.
// Returns: hostgroup with optional name and ordered members.
func NewHostgroup(params Params) *Hostgroup {
	group := &Hostgroup{}
	group.name, group.hasName = params[ParamHostgroupName]
	if raw, ok := params[ParamMembers]; ok {
		group.members = SplitSelector(raw).Include
	}
	return group
}

// Name returns hostgroup_name, or empty string when not set.
func (g *Hostgroup) Name() string {
	return g.name
}

// HasName reports whether hostgroup_name was set.
func (g *Hostgroup) HasName() bool {
	return g.hasName
}

// Members returns member host names, possibly including "*".
func (g *Hostgroup) Members() []string {
	return g.members
}

// Includes reports whether the member list names the host or uses the wildcard.
// Params: host name.
// Returns: true for direct or wildcard membership.
func (g *Hostgroup) Includes(hostName string) bool {
	return containsString(g.members, hostName) || containsString(g.members, Wildcard)
}
