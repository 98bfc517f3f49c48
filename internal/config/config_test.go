package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSettings(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFromCLI(t *testing.T) {
	t.Parallel()

	src, err := FromCLI("  ", "")
	if err != nil || !src.IsEmpty() {
		t.Fatalf("expected empty source, got %+v, %v", src, err)
	}
	if _, err := FromCLI("a.toml", "dir"); err == nil {
		t.Fatalf("expected error for both sources")
	}
	src, err = FromCLI("", " conf.d ")
	if err != nil || src.Dir != "conf.d" {
		t.Fatalf("unexpected source %+v, %v", src, err)
	}
}

func TestLoadSnapshotDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadSnapshot(ConfigSource{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Nagios.MainConfig != DefaultMainConfig || cfg.Nagios.Author != DefaultAuthor {
		t.Fatalf("unexpected nagios defaults: %+v", cfg.Nagios)
	}
	if !cfg.Log.Console.IsEnabled() || cfg.Log.Console.Level != "info" || cfg.Log.Console.Format != "line" {
		t.Fatalf("unexpected console defaults: %+v", cfg.Log.Console)
	}
	if cfg.Log.File.IsEnabled() {
		t.Fatalf("file sink must be disabled by default")
	}
	if cfg.Search.AllFormat != DefaultAllFormat {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
}

func TestLoadSnapshotFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeSettings(t, dir, "nagctl.toml", `
[nagios]
main_config = "/opt/nagios/etc/nagios.cfg"
command_file = "/opt/nagios/var/rw/nagios.cmd"
author = "ops"

[log.console]
enabled = false

[log.file]
enabled = true
level = "debug"
path = "/var/log/nagctl.log"

[search]
all_format = "{{.Host}} => {{join .Services \"|\"}}"
host_format = "{{.Host}}"
service_format = "{{.Service}}"
`)
	cfg, err := LoadSnapshot(ConfigSource{File: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Nagios.Author != "ops" || cfg.Nagios.CommandFile != "/opt/nagios/var/rw/nagios.cmd" {
		t.Fatalf("unexpected nagios section: %+v", cfg.Nagios)
	}
	if cfg.Log.Console.IsEnabled() {
		t.Fatalf("explicitly disabled console sink was re-enabled")
	}
	if !cfg.Log.File.IsEnabled() || cfg.Log.File.Format != "json" {
		t.Fatalf("unexpected file sink: %+v", cfg.Log.File)
	}
}

func TestLoadSnapshotFromDirMergesFragments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSettings(t, dir, "10-nagios.toml", "[nagios]\nmain_config = \"/a/nagios.cfg\"\n")
	writeSettings(t, dir, "20-nagios.toml", "[nagios]\nmain_config = \"/b/nagios.cfg\"\n")
	writeSettings(t, dir, "30-log.toml", "[log.console]\nenabled = true\nlevel = \"warn\"\n")
	writeSettings(t, dir, "README.md", "ignored")

	cfg, err := LoadSnapshot(ConfigSource{Dir: dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Nagios.MainConfig != "/b/nagios.cfg" {
		t.Fatalf("later fragment must win, got %q", cfg.Nagios.MainConfig)
	}
	if cfg.Log.Console.Level != "warn" {
		t.Fatalf("console level = %q", cfg.Log.Console.Level)
	}
	if cfg.Nagios.Author != DefaultAuthor {
		t.Fatalf("author default lost: %q", cfg.Nagios.Author)
	}
}

func TestLoadSnapshotRejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[nagios]\nmain_cfg = \"x\"\n", "decode settings file"},
		{"bad level", "[log.console]\nenabled = true\nlevel = \"loud\"\n", "Level"},
		{"bad format", "[log.console]\nenabled = true\nformat = \"xml\"\n", "Format"},
		{"file without path", "[log.file]\nenabled = true\n", "log.file.path"},
		{"author with separator", "[nagios]\nauthor = \"a;b\"\n", "Author"},
		{"bad template", "[search]\nhost_format = \"{{.Host\"\n", "search.host_format"},
		{"unknown template field", "[search]\nservice_format = \"{{.Name}}\"\n", "search.service_format"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeSettings(t, t.TempDir(), "nagctl.toml", tc.body)
			_, err := LoadSnapshot(ConfigSource{File: path})
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadSnapshotMissingSources(t *testing.T) {
	t.Parallel()

	if _, err := LoadSnapshot(ConfigSource{File: filepath.Join(t.TempDir(), "missing.toml")}); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := LoadSnapshot(ConfigSource{Dir: t.TempDir()}); err == nil {
		t.Fatalf("expected empty dir error")
	}
}
