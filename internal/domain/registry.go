package domain

// Registry holds every object loaded in one run plus both template maps.
// It is built once by the loader and then handed to the matcher.
type Registry struct {
	Hosts            []*Host
	Services         []*Service
	Hostgroups       []*Hostgroup
	HostTemplates    map[string]*Host
	ServiceTemplates map[string]*Service
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		HostTemplates:    make(map[string]*Host),
		ServiceTemplates: make(map[string]*Service),
	}
}

// AddHost registers a host block as a live host and/or a host template.
// Params: decoded host parameters.
// Returns: created host.
func (r *Registry) AddHost(params Params) *Host {
	host := NewHost(params)
	if host.IsRegistered() {
		r.Hosts = append(r.Hosts, host)
	}
	if name, ok := host.TemplateName(); ok {
		r.HostTemplates[name] = host
	}
	return host
}

// AddService registers a service block as a live service and/or a service template.
// Params: decoded service parameters.
// Returns: created service.
func (r *Registry) AddService(params Params) *Service {
	service := NewService(params)
	if service.IsRegistered() {
		r.Services = append(r.Services, service)
	}
	if name, ok := service.TemplateName(); ok {
		r.ServiceTemplates[name] = service
	}
	return service
}

// AddHostgroup registers a hostgroup block; blocks without hostgroup_name are skipped.
// Params: decoded hostgroup parameters.
// Returns: created hostgroup and true, or false when skipped.
func (r *Registry) AddHostgroup(params Params) (*Hostgroup, bool) {
	group := NewHostgroup(params)
	if !group.HasName() {
		return nil, false
	}
	r.Hostgroups = append(r.Hostgroups, group)
	return group, true
}

// HostTemplate looks up a host template by name.
func (r *Registry) HostTemplate(name string) (*Entity, bool) {
	host, ok := r.HostTemplates[name]
	if !ok {
		return nil, false
	}
	return &host.Entity, true
}

// ServiceTemplate looks up a service template by name.
func (r *Registry) ServiceTemplate(name string) (*Entity, bool) {
	service, ok := r.ServiceTemplates[name]
	if !ok {
		return nil, false
	}
	return &service.Entity, true
}

// SetupHost resolves one host against the host templates of this registry.
func (r *Registry) SetupHost(host *Host) error {
	return host.Setup(r.HostTemplate)
}

// SetupService resolves one service against the service templates of this registry.
func (r *Registry) SetupService(service *Service) error {
	return service.Setup(r.ServiceTemplate)
}
