package domain

const (
	// ParamServiceDescription is the identity key of service objects.
	ParamServiceDescription = "service_description"
	// ParamHostgroupName is the group selector of services and the identity key of hostgroups.
	ParamHostgroupName = "hostgroup_name"
)

// Selectors holds both host selector pairs of a service. Nil slices mean the parameter was not set.
type Selectors struct {
	IncludeHosts  []string
	ExcludeHosts  []string
	IncludeGroups []string
	ExcludeGroups []string
}

// Service is a monitored service definition with host/hostgroup selectors.
// Params: raw service block parameters.
// Returns: entity whose selectors are available after Setup.
type Service struct {
	Entity
	selectors Selectors
}

// NewService creates an unresolved service.
// Params: decoded service block parameters.
// Returns: service in Raw state.
func NewService(params Params) *Service {
	return &Service{Entity: newEntity(params, ParamServiceDescription)}
}

// Name returns service_description, or empty string for templates.
func (s *Service) Name() string {
	name, _ := s.Identity()
	return name
}

// Setup resolves templates, finalizes parameters and parses host selectors, once.
// Params: service template lookup.
// Returns: cyclic template error.
func (s *Service) Setup(lookup TemplateLookup) error {
	done, err := s.setup(lookup)
	if err != nil {
		return err
	}
	if done {
		s.resolveHostSelectors()
	}
	return nil
}

// resolveHostSelectors parses host_name and hostgroup_name into include/exclude halves.
func (s *Service) resolveHostSelectors() {
	s.selectors = Selectors{}
	if hosts := splitParam(s.Param(ParamHostName)); hosts != nil {
		s.selectors.IncludeHosts = nonNil(hosts.Include)
		s.selectors.ExcludeHosts = nonNil(hosts.Exclude)
	}
	if groups := splitParam(s.Param(ParamHostgroupName)); groups != nil {
		s.selectors.IncludeGroups = nonNil(groups.Include)
		s.selectors.ExcludeGroups = nonNil(groups.Exclude)
	}
}

// Selectors returns parsed host selectors.
func (s *Service) Selectors() Selectors {
	return s.selectors
}

// nonNil keeps "set but empty" distinguishable from "not set".
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
