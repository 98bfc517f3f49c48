package domain

import (
	"slices"
	"testing"
)

func newUniverse(t *testing.T) *Host {
	t.Helper()
	host := NewHost(Params{"host_name": "universe", "hostgroups": "group0, group1"})
	if err := host.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return host
}

func TestHostMatchesServiceInclude(t *testing.T) {
	t.Parallel()

	host := newUniverse(t)
	cases := []struct {
		name                                                   string
		includeHosts, excludeHosts, includeGroups, excludeGroups []string
	}{
		{"host name", []string{"universe"}, nil, nil, nil},
		{"group", nil, nil, []string{"group1"}, nil},
		{"host wildcard", []string{"*"}, nil, nil, nil},
		{"unrelated host exclude", []string{"universe"}, []string{"multiverse"}, nil, nil},
		{"unrelated group exclude", []string{"universe"}, []string{"multiverse"}, nil, []string{"gibberish"}},
		{"group wildcard", nil, nil, []string{"*"}, nil},
	}
	for _, tc := range cases {
		if !host.MatchesService(tc.includeHosts, tc.excludeHosts, tc.includeGroups, tc.excludeGroups) {
			t.Fatalf("%s: expected match", tc.name)
		}
	}
}

func TestHostMatchesServiceExclude(t *testing.T) {
	t.Parallel()

	host := newUniverse(t)
	cases := []struct {
		name                                                   string
		includeHosts, excludeHosts, includeGroups, excludeGroups []string
	}{
		{"no constraints", nil, nil, nil, nil},
		{"empty constraints", []string{}, []string{}, []string{}, []string{}},
		{"foreign group", nil, nil, []string{"group2"}, nil},
		{"wildcard with excluded group", []string{"*"}, nil, nil, []string{"group0"}},
		{"name with excluded group", []string{"universe"}, nil, nil, []string{"group0"}},
		{"group with excluded name", nil, []string{"universe"}, []string{"group0"}, nil},
		{"foreign host", []string{"galaxy"}, nil, nil, nil},
		{"name included and excluded", []string{"universe"}, []string{"universe"}, nil, nil},
		{"group included and excluded", nil, nil, []string{"group0"}, []string{"group1"}},
		{"group wildcard with excluded name", nil, []string{"universe"}, []string{"*"}, nil},
	}
	for _, tc := range cases {
		if host.MatchesService(tc.includeHosts, tc.excludeHosts, tc.includeGroups, tc.excludeGroups) {
			t.Fatalf("%s: expected no match", tc.name)
		}
	}
}

func TestHostExclusionAlwaysWins(t *testing.T) {
	t.Parallel()

	names := []string{"web0", "db0", "universe"}
	for _, name := range names {
		host := NewHost(Params{"host_name": name, "hostgroups": "all-hosts"})
		if err := host.Setup(nil); err != nil {
			t.Fatalf("setup: %v", err)
		}
		includes := [][]string{nil, {"*"}, {name}, {name, "*"}}
		for _, includeHosts := range includes {
			for _, includeGroups := range includes {
				if host.MatchesService(includeHosts, []string{name}, includeGroups, nil) {
					t.Fatalf("host %s matched despite exclusion (hosts=%v groups=%v)", name, includeHosts, includeGroups)
				}
			}
		}
	}
}

func TestHostAddHostgroupKeepsDuplicates(t *testing.T) {
	t.Parallel()

	host := newUniverse(t)
	host.AddHostgroup("elite")
	host.AddHostgroup("group0")
	if want := []string{"group0", "group1", "elite", "group0"}; !slices.Equal(host.Groups(), want) {
		t.Fatalf("groups = %v, want %v", host.Groups(), want)
	}
}

func TestHostSetupDefaults(t *testing.T) {
	t.Parallel()

	host := NewHost(Params{"host_name": "universe"})
	if err := host.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if len(host.Groups()) != 0 {
		t.Fatalf("expected no groups, got %v", host.Groups())
	}
	if host.State() != StateFinalized {
		t.Fatalf("state = %s, want finalized", host.State())
	}
}

func TestHostSetupIgnoresGroupExclusions(t *testing.T) {
	t.Parallel()

	host := NewHost(Params{"host_name": "universe", "hostgroups": "office, !maintenance, servers"})
	if err := host.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if want := []string{"office", "servers"}; !slices.Equal(host.Groups(), want) {
		t.Fatalf("groups = %v, want %v", host.Groups(), want)
	}
}

func TestHostSetupInheritsGroups(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddHost(Params{"name": "generic-worker", "register": "0", "hostgroups": "workers"})
	host := reg.AddHost(Params{"host_name": "worker0", "use": "generic-worker", "hostgroups": "+queue"})

	if err := reg.SetupHost(host); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if want := []string{"queue", "workers"}; !slices.Equal(host.Groups(), want) {
		t.Fatalf("groups = %v, want %v", host.Groups(), want)
	}
	host.AddHostgroup("extra")
	if err := reg.SetupHost(host); err != nil {
		t.Fatalf("second setup: %v", err)
	}
	if want := []string{"queue", "workers", "extra"}; !slices.Equal(host.Groups(), want) {
		t.Fatalf("second setup reset groups: %v", host.Groups())
	}
}

func TestServiceSetupDefaults(t *testing.T) {
	t.Parallel()

	service := NewService(Params{})
	if err := service.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	sel := service.Selectors()
	if sel.IncludeHosts != nil || sel.ExcludeHosts != nil || sel.IncludeGroups != nil || sel.ExcludeGroups != nil {
		t.Fatalf("expected absent selectors, got %+v", sel)
	}
	if service.Name() != "" {
		t.Fatalf("expected empty name, got %q", service.Name())
	}
}

func TestServiceSetupParsesSelectors(t *testing.T) {
	t.Parallel()

	service := NewService(Params{
		"service_description": "Nameless One",
		"host_name":           "omega, !mike, golf",
		"hostgroup_name":      "office, !maintenance, servers",
	})
	if err := service.Setup(nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	sel := service.Selectors()
	if want := []string{"omega", "golf"}; !slices.Equal(sel.IncludeHosts, want) {
		t.Fatalf("include hosts = %v", sel.IncludeHosts)
	}
	if want := []string{"mike"}; !slices.Equal(sel.ExcludeHosts, want) {
		t.Fatalf("exclude hosts = %v", sel.ExcludeHosts)
	}
	if want := []string{"office", "servers"}; !slices.Equal(sel.IncludeGroups, want) {
		t.Fatalf("include groups = %v", sel.IncludeGroups)
	}
	if want := []string{"maintenance"}; !slices.Equal(sel.ExcludeGroups, want) {
		t.Fatalf("exclude groups = %v", sel.ExcludeGroups)
	}
	if service.Name() != "Nameless One" {
		t.Fatalf("name = %q", service.Name())
	}
}

func TestServiceSetupInheritsHostSelector(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddService(Params{"name": "generic-cpu", "hostgroup_name": "databases", "register": "0"})
	service := reg.AddService(Params{"service_description": "CPU", "use": "generic-cpu"})

	if err := reg.SetupService(service); err != nil {
		t.Fatalf("setup: %v", err)
	}
	host := NewHost(Params{"host_name": "db0", "hostgroups": "databases"})
	if err := host.Setup(nil); err != nil {
		t.Fatalf("host setup: %v", err)
	}
	if !host.Serves(service) {
		t.Fatalf("expected inherited hostgroup selector to match")
	}
}

func TestHostgroup(t *testing.T) {
	t.Parallel()

	group := NewHostgroup(Params{"hostgroup_name": "swarm", "members": "drone0, !drone9, drone1"})
	if group.Name() != "swarm" || !group.HasName() {
		t.Fatalf("name = %q", group.Name())
	}
	if want := []string{"drone0", "drone1"}; !slices.Equal(group.Members(), want) {
		t.Fatalf("members = %v, want %v", group.Members(), want)
	}
	if !group.Includes("drone1") || group.Includes("drone9") {
		t.Fatalf("unexpected membership")
	}

	nameless := NewHostgroup(Params{"members": "drone0"})
	if nameless.HasName() || nameless.Name() != "" {
		t.Fatalf("expected nameless hostgroup")
	}
	if empty := NewHostgroup(Params{"hostgroup_name": "swarm"}); len(empty.Members()) != 0 {
		t.Fatalf("expected no members, got %v", empty.Members())
	}
	if wildcard := NewHostgroup(Params{"hostgroup_name": "all", "members": "*"}); !wildcard.Includes("anything") {
		t.Fatalf("expected wildcard membership")
	}
}

func TestRegistryRegistration(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.AddHost(Params{"name": "generic-host", "register": "0"})
	both := reg.AddHost(Params{"name": "generic-worker", "host_name": "worker0"})
	reg.AddHost(Params{"host_name": "worker1"})
	reg.AddHost(Params{"host_name": "ghost", "register": "0"})
	reg.AddService(Params{"name": "generic-service"})
	reg.AddService(Params{"service_description": "ping"})
	if _, ok := reg.AddHostgroup(Params{"members": "worker0"}); ok {
		t.Fatalf("expected nameless hostgroup to be skipped")
	}
	if _, ok := reg.AddHostgroup(Params{"hostgroup_name": "workers", "members": "worker0"}); !ok {
		t.Fatalf("expected hostgroup to be registered")
	}

	if len(reg.Hosts) != 2 || reg.Hosts[0] != both || reg.Hosts[1].Name() != "worker1" {
		t.Fatalf("unexpected hosts: %d", len(reg.Hosts))
	}
	if len(reg.HostTemplates) != 2 || reg.HostTemplates["generic-worker"] != both {
		t.Fatalf("unexpected host templates: %v", reg.HostTemplates)
	}
	if len(reg.Services) != 1 || len(reg.ServiceTemplates) != 1 {
		t.Fatalf("unexpected services: %d/%d", len(reg.Services), len(reg.ServiceTemplates))
	}
	if len(reg.Hostgroups) != 1 {
		t.Fatalf("unexpected hostgroups: %d", len(reg.Hostgroups))
	}
}
