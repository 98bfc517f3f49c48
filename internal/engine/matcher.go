package engine

import (
	"fmt"

	"nagctl/internal/domain"
)

// Filter holds optional name patterns applied before host/service matching.
// Params: nil pattern means no constraint for that object kind.
// Returns: matcher input from -h/-s options.
type Filter struct {
	Host    *domain.NamePattern
	Service *domain.NamePattern
}

// Link is one matched host with the services attached to it.
type Link struct {
	Host     *domain.Host
	Services []*domain.Service
}

// Association is the ordered host -> services result of one match.
// Hosts appear once, in candidate order, and only when at least one service matched.
type Association struct {
	links []Link
}

// Links returns matched host/service groups in order.
func (a *Association) Links() []Link {
	return a.links
}

// Len returns number of matched hosts.
func (a *Association) Len() int {
	return len(a.links)
}

// Hosts returns matched hosts in order.
func (a *Association) Hosts() []*domain.Host {
	out := make([]*domain.Host, 0, len(a.links))
	for _, link := range a.links {
		out = append(out, link.Host)
	}
	return out
}

// ServiceNames returns distinct matched service names in first-seen order.
func (a *Association) ServiceNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, link := range a.links {
		for _, service := range link.Services {
			name := service.Name()
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Match computes which services attach to which hosts among the filtered objects.
// Params: registry with all loaded objects and optional name filter.
// Returns: association or template resolution error.
func Match(reg *domain.Registry, filter Filter) (*Association, error) {
	hosts := make([]*domain.Host, 0, len(reg.Hosts))
	for _, host := range reg.Hosts {
		if filter.Host != nil && !host.MatchName(filter.Host) {
			continue
		}
		if err := reg.SetupHost(host); err != nil {
			return nil, fmt.Errorf("host %q: %w", host.Name(), err)
		}
		hosts = append(hosts, host)
	}

	expandHostgroups(reg.Hostgroups, hosts)

	services := make([]*domain.Service, 0, len(reg.Services))
	for _, service := range reg.Services {
		if filter.Service != nil && !service.MatchName(filter.Service) {
			continue
		}
		if err := reg.SetupService(service); err != nil {
			return nil, fmt.Errorf("service %q: %w", service.Name(), err)
		}
		services = append(services, service)
	}

	result := &Association{}
	for _, host := range hosts {
		var attached []*domain.Service
		for _, service := range services {
			if host.Serves(service) {
				attached = append(attached, service)
			}
		}
		if len(attached) > 0 {
			result.links = append(result.links, Link{Host: host, Services: attached})
		}
	}
	return result, nil
}

// expandHostgroups adds groups whose member list names a candidate host or uses the wildcard.
// Params: all hostgroups and filtered candidate hosts.
// Returns: mutation of host group lists.
func expandHostgroups(groups []*domain.Hostgroup, hosts []*domain.Host) {
	for _, group := range groups {
		for _, host := range hosts {
			if group.Includes(host.Name()) {
				host.AddHostgroup(group.Name())
			}
		}
	}
}
