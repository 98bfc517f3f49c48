package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)), 2)
}

func TestScanMainConfigMissing(t *testing.T) {
	t.Parallel()

	if _, err := ScanMainConfig(filepath.Join(t.TempDir(), "notexisting.cfg")); err == nil {
		t.Fatalf("expected error for missing main config")
	}
}

func TestScanMainConfigRegular(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.cfg")
	writeFile(t, path, "cfg_file=hosts.cfg\ncfg_file=services.cfg\ncfg_file=hostgroups.cfg\ncfg_dir=conf.d\n")
	cfg, err := ScanMainConfig(path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !slices.Equal(cfg.CfgFiles, []string{"hosts.cfg", "services.cfg", "hostgroups.cfg"}) {
		t.Fatalf("cfg files = %v", cfg.CfgFiles)
	}
	if !slices.Equal(cfg.CfgDirs, []string{"conf.d"}) || cfg.Path != path {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestObjectFilesSearchesRecursively(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "conf.d")
	writeFile(t, filepath.Join(dir, "b.cfg"), "")
	writeFile(t, filepath.Join(dir, "a.cfg"), "")
	writeFile(t, filepath.Join(dir, ".hidden.cfg"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "nested", "c.cfg"), "")

	files := testLoader().ObjectFiles(MainConfig{
		CfgDirs:  []string{dir, filepath.Join(root, "nonexisting.d")},
		CfgFiles: []string{"extra.cfg"},
	})
	want := []string{
		filepath.Join(dir, "a.cfg"),
		filepath.Join(dir, "b.cfg"),
		filepath.Join(dir, "nested", "c.cfg"),
		"extra.cfg",
	}
	if !slices.Equal(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestObjectFilesFollowsSymlinkedDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	objs := filepath.Join(root, "objs")
	writeFile(t, filepath.Join(root, "real", "sub", "h.cfg"), "")
	writeFile(t, filepath.Join(objs, "a.cfg"), "")
	if err := os.Symlink(filepath.Join(root, "real", "sub"), filepath.Join(objs, "linked")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(objs, filepath.Join(objs, "loop")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	files := testLoader().ObjectFiles(MainConfig{CfgDirs: []string{objs}})
	want := []string{
		filepath.Join(objs, "a.cfg"),
		filepath.Join(objs, "linked", "h.cfg"),
	}
	if !slices.Equal(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestLoadRegistersObjects(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	templates := filepath.Join(root, "templates.cfg")
	writeFile(t, templates, `
define host {
	name        generic-host
	register    0
}
define host {
	name        generic-worker
	use         generic-host
	hostgroups  workers
	register    0
}
define service {
	name        generic-service
	register    0
}
define service {
	name        generic-cpu
	use         generic-service
	register    0
}
`)
	hosts := filepath.Join(root, "hosts.cfg")
	writeFile(t, hosts, `
define host {
	host_name   database0
	hostgroups  databases
}
define host {
	host_name   worker0
	use         generic-worker
}
define hostgroup {
	members     worker0
}
define hostgroup {
	hostgroup_name  databases
	members         database0
}
`)
	writeFile(t, filepath.Join(root, "conf.d", "universe.cfg"), `
define host {
	host_name   universe
}
define service {
	service_description  ping
	host_name            universe
}
`)

	reg, err := testLoader().Load(context.Background(), MainConfig{
		CfgDirs:  []string{filepath.Join(root, "conf.d")},
		CfgFiles: []string{templates, hosts, filepath.Join(root, "nonexisting.cfg")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var hostNames []string
	for _, host := range reg.Hosts {
		hostNames = append(hostNames, host.Name())
	}
	if want := []string{"universe", "database0", "worker0"}; !slices.Equal(hostNames, want) {
		t.Fatalf("hosts = %v, want %v", hostNames, want)
	}
	if len(reg.Services) != 1 || reg.Services[0].Name() != "ping" {
		t.Fatalf("unexpected services: %d", len(reg.Services))
	}
	if _, ok := reg.HostTemplates["generic-worker"]; !ok || len(reg.HostTemplates) != 2 {
		t.Fatalf("host templates = %v", reg.HostTemplates)
	}
	if _, ok := reg.ServiceTemplates["generic-cpu"]; !ok || len(reg.ServiceTemplates) != 2 {
		t.Fatalf("service templates = %v", reg.ServiceTemplates)
	}
	if len(reg.Hostgroups) != 1 || reg.Hostgroups[0].Name() != "databases" {
		t.Fatalf("unexpected hostgroups: %d", len(reg.Hostgroups))
	}
}

func TestLoadHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hosts.cfg")
	writeFile(t, path, "define host {\nhost_name web0\n}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testLoader().Load(ctx, MainConfig{CfgFiles: []string{path}}); err == nil {
		t.Fatalf("expected context error")
	}
}
