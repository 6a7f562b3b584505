package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phroun/dirtree"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.TreeLimits() != dirtree.DefaultLimits() {
		t.Errorf("TreeLimits() = %+v, want %+v", cfg.TreeLimits(), dirtree.DefaultLimits())
	}
	opts := cfg.TreeOptions()
	if opts.ParentAtRoot != dirtree.ErrorAtRoot || opts.Duplicates != dirtree.AllowDuplicates {
		t.Errorf("TreeOptions() = %+v", opts)
	}
	if cfg.Snapshot.Compression != "zstd" || cfg.Snapshot.Path != "" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "dirtree.yaml", `
limits:
  threshold: 5000
navigation:
  parent_at_root: stay
  duplicates: reject
snapshot:
  path: /tmp/tree.dts
  compression: lz4
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Limits.Threshold != 5000 {
		t.Errorf("Threshold = %d, want 5000", cfg.Limits.Threshold)
	}
	// Unset values keep their defaults.
	if cfg.Limits.Capacity != 70000000 || cfg.Limits.Required != 30000000 {
		t.Errorf("Limits = %+v", cfg.Limits)
	}
	opts := cfg.TreeOptions()
	if opts.ParentAtRoot != dirtree.StayAtRoot || opts.Duplicates != dirtree.RejectDuplicates {
		t.Errorf("TreeOptions() = %+v", opts)
	}
	if cfg.Snapshot.Path != "/tmp/tree.dts" || cfg.Snapshot.Compression != "lz4" {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "dirtree.jsonc", `{
  // smaller device
  "limits": {
    "capacity": 1000,
    "required": 400,
  },
  "snapshot": {"compression": "none"},
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	want := dirtree.Limits{Threshold: 100000, Capacity: 1000, Required: 400}
	if cfg.TreeLimits() != want {
		t.Errorf("TreeLimits() = %+v, want %+v", cfg.TreeLimits(), want)
	}
	if cfg.Snapshot.Compression != "none" {
		t.Errorf("Compression = %q, want none", cfg.Snapshot.Compression)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"extension", "dirtree.toml", "x = 1", "unsupported extension"},
		{"bad yaml", "bad.yaml", "limits: [", "config"},
		{"bad json", "bad.json", "{", "config"},
		{"invalid enum", "enum.yaml", "navigation:\n  duplicates: merge\n", "navigation.duplicates"},
		{"zero capacity", "lim.yaml", "limits:\n  capacity: 0\n", "limits.capacity must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("LoadFile succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Limits.Capacity = 0
	cfg.Navigation.ParentAtRoot = "wrap"
	cfg.Snapshot.Compression = "gzip"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate succeeded, want error")
	}
	for _, want := range []string{"limits.capacity must be positive", "parent_at_root", "snapshot.compression"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Limits != Default().Limits {
		t.Errorf("Load() without %s = %+v, want defaults", EnvVar, cfg.Limits)
	}

	path := writeConfig(t, "env.yml", "limits:\n  threshold: 7\n")
	t.Setenv(EnvVar, path)
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Limits.Threshold != 7 {
		t.Errorf("Threshold = %d, want 7", cfg.Limits.Threshold)
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("DIRTREE_TEST_DIR", "/data")
	t.Setenv("DIRTREE_TEST_UNSET", "")

	tests := []struct {
		in, want string
	}{
		{"${DIRTREE_TEST_DIR}/tree.dts", "/data/tree.dts"},
		{"${DIRTREE_TEST_UNSET:-/fallback}/tree.dts", "/fallback/tree.dts"},
		{"${DIRTREE_TEST_DIR:-/fallback}", "/data"},
		{"${DIRTREE_TEST_UNSET}", ""},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandVars(tt.in); got != tt.want {
			t.Errorf("expandVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	path := writeConfig(t, "vars.yaml", "snapshot:\n  path: ${DIRTREE_TEST_DIR}/snap.dts\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Snapshot.Path != "/data/snap.dts" {
		t.Errorf("Snapshot.Path = %q, want /data/snap.dts", cfg.Snapshot.Path)
	}
}
