package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"rpminspect/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rpminspect.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsForEmptyFile(t *testing.T) {
	path := writeConfig(t, "")

	cfg, resolved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	want := config.Default()
	if cfg.Common.Workdir != want.Common.Workdir {
		t.Fatalf("workdir = %q, want %q", cfg.Common.Workdir, want.Common.Workdir)
	}
	if cfg.Common.Threshold != "verify" {
		t.Fatalf("threshold = %q, want verify", cfg.Common.Threshold)
	}
	if cfg.Koji.Downloads != want.Koji.Downloads {
		t.Fatalf("downloads = %d, want %d", cfg.Koji.Downloads, want.Koji.Downloads)
	}
	if !slices.Equal(cfg.Tests.BinPaths, want.Tests.BinPaths) {
		t.Fatalf("bin_paths = %v, want %v", cfg.Tests.BinPaths, want.Tests.BinPaths)
	}
}

func TestLoadExpandsTildeWorkdir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, "[common]\nworkdir = \"~/scratch\"\n")

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(home, "scratch"); cfg.Common.Workdir != want {
		t.Fatalf("workdir = %q, want %q", cfg.Common.Workdir, want)
	}
}

func TestLoadNormalizesLists(t *testing.T) {
	path := writeConfig(t, `
[tests]
badwords = [" Alpha ", "alpha", "", "beta"]
bin_paths = ["/usr/bin/", "/usr/bin", "/bin"]
`)
	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.Tests.BadWords; !slices.Equal(got, []string{"alpha", "beta"}) {
		t.Fatalf("badwords = %v", got)
	}
	if got := cfg.Tests.BinPaths; !slices.Equal(got, []string{"/usr/bin", "/bin"}) {
		t.Fatalf("bin_paths = %v", got)
	}
}

func TestLoadRejectsMissingExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	_, _, err := config.Load(path)
	if !errors.Is(err, config.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error should name the path, got %v", err)
	}
}

func TestLoadRejectsDirectory(t *testing.T) {
	_, _, err := config.Load(t.TempDir())
	if !errors.Is(err, config.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestLoadDefaultPathMissingSuggestsVendorData(t *testing.T) {
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		t.Skip("default config installed on this host")
	}
	_, _, err := config.Load("")
	if !errors.Is(err, config.ErrDefaultMissing) {
		t.Fatalf("expected ErrDefaultMissing, got %v", err)
	}
	if !strings.Contains(err.Error(), "rpminspect-data") {
		t.Fatalf("expected vendor data hint, got %v", err)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	path := writeConfig(t, "[common]\nthreshold = \"fatal\"\n")
	if _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "common.threshold") {
		t.Fatalf("expected threshold error, got %v", err)
	}
}

func TestLoadRejectsRelativeKojiHub(t *testing.T) {
	path := writeConfig(t, "[koji]\nhub = \"kojihub\"\n")
	if _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "koji.hub") {
		t.Fatalf("expected koji.hub error, got %v", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeConfig(t, "[common\nworkdir=")
	if _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "rpminspect.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	def := config.Default()
	if cfg.Common != def.Common {
		t.Fatalf("common = %+v, want %+v", cfg.Common, def.Common)
	}
	if cfg.Koji != def.Koji {
		t.Fatalf("koji = %+v, want %+v", cfg.Koji, def.Koji)
	}
	if cfg.Tests.Vendor != def.Tests.Vendor || !slices.Equal(cfg.Tests.ForbiddenOwners, def.Tests.ForbiddenOwners) {
		t.Fatalf("tests = %+v, want %+v", cfg.Tests, def.Tests)
	}
	if !strings.Contains(config.SampleConfig(), "[vendor_data]") {
		t.Fatal("sample config should document vendor_data")
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != home {
		t.Fatalf("ExpandPath(~) = %q, want %q", got, home)
	}
	if _, err := config.ExpandPath("~no-such-user-rpminspect/x"); err == nil {
		t.Fatal("expected unknown user error")
	}
}
