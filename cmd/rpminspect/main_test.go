package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rpminspect/internal/config"
	"rpminspect/internal/testsupport"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// setup writes a config file and an empty local build tree whose name
// carries the fc40 product release.
func setup(t *testing.T) (cfgPath, workdir, build string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithLicenseDB(`{"MIT": {"approved": "yes"}}`))
	build = filepath.Join(t.TempDir(), "zsh-5.9-1.fc40")
	if err := os.MkdirAll(build, 0o755); err != nil {
		t.Fatal(err)
	}
	return testsupport.WriteConfigFile(t, cfg), cfg.Common.Workdir, build
}

const hint = "*** See `rpminspect --help` for more information.\n"

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-V")
	if code != 0 || out != "rpminspect version "+version+"\n" {
		t.Fatalf("code=%d out=%q", code, out)
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := runCLI(t, "-?")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"Usage:", "--tests", "--fetch-only", "--version"} {
		if !strings.Contains(out, want) {
			t.Fatalf("help missing %q:\n%s", want, out)
		}
	}
}

func TestList(t *testing.T) {
	code, out, _ := runCLI(t, "-l")
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	formats := strings.Index(out, "Available output formats:")
	inspections := strings.Index(out, "Available inspections:")
	if formats < 0 || inspections < formats {
		t.Fatalf("unexpected layout:\n%s", out)
	}
	for _, want := range []string{"    text (default)\n", "    sqlite\n", "    license\n", "    ownership\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("list missing %q:\n%s", want, out)
		}
	}
}

func TestListVerboseWrapsDescriptions(t *testing.T) {
	_, out, _ := runCLI(t, "-l", "-v")
	var described bool
	for _, line := range strings.Split(out, "\n") {
		if len(line) > defaultWidth {
			t.Fatalf("line exceeds %d columns: %q", defaultWidth, line)
		}
		if strings.HasPrefix(line, "        Ensure the spec file name") {
			described = true
		}
	}
	if !described {
		t.Fatalf("descriptions missing:\n%s", out)
	}
}

func TestInvalidFormat(t *testing.T) {
	code, _, errOut := runCLI(t, "-F", "xml", "after.fc40")
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	if !strings.HasPrefix(errOut, "*** invalid output format: `xml`\n") || !strings.HasSuffix(errOut, hint) {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestUnknownFlag(t *testing.T) {
	code, _, errOut := runCLI(t, "--bogus")
	if code != 1 || !strings.HasSuffix(errOut, hint) {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestUnreadableConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	code, _, errOut := runCLI(t, "-c", missing, "after.fc40")
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(errOut, "specified config file ("+missing+") is unreadable") || strings.Contains(errOut, "--help") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestUnknownInspection(t *testing.T) {
	cfgPath, _, build := setup(t)
	code, _, errOut := runCLI(t, "-c", cfgPath, "-T", "license,bogus", build)
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	if errOut != "*** unknown test specified: `bogus`\n"+hint {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestConflictingSelection(t *testing.T) {
	cfgPath, _, build := setup(t)
	code, _, errOut := runCLI(t, "-c", cfgPath, "-T", "license", "-E", "emptyrpm", build)
	if code != 1 || !strings.Contains(errOut, "mutually exclusive") || !strings.HasSuffix(errOut, hint) {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestBuildCount(t *testing.T) {
	cfgPath, _, _ := setup(t)
	code, _, errOut := runCLI(t, "-c", cfgPath)
	if code != 1 || !strings.Contains(errOut, "invalid build specification") || !strings.HasSuffix(errOut, hint) {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
}

func TestRunLocalTree(t *testing.T) {
	cfgPath, workdir, build := setup(t)
	code, out, errOut := runCLI(t, "-c", cfgPath, "-T", "license", build)
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	if !strings.Contains(out, "license:\n") || !strings.Contains(out, "Result: OK") {
		t.Fatalf("stdout = %q", out)
	}
	if _, err := os.Stat(workdir); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("workdir should be removed, stat err = %v", err)
	}
}

func TestRunKeep(t *testing.T) {
	cfgPath, workdir, build := setup(t)
	code, out, errOut := runCLI(t, "-c", cfgPath, "-E", "ALL", "-k", build)
	if code != 0 {
		t.Fatalf("code=%d stderr=%q", code, errOut)
	}
	if !strings.HasPrefix(out, "Keeping working directory: "+filepath.Join(workdir, "local.")) {
		t.Fatalf("stdout = %q", out)
	}
}

func TestRunFailedInspectionExitsOne(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfgPath := testsupport.WriteConfigFile(t, cfg)
	build := filepath.Join(t.TempDir(), "zsh-5.9-1.fc40")
	if err := os.MkdirAll(build, 0o755); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := runCLI(t, "-c", cfgPath, "-T", "license", build)
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(out, "Result: BAD") || strings.Contains(errOut, "***") {
		t.Fatalf("stdout=%q stderr=%q", out, errOut)
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "rpminspect.toml")
	code, out, _ := runCLI(t, "--write-config", path)
	if code != 0 || !strings.Contains(out, path) {
		t.Fatalf("code=%d out=%q", code, out)
	}
	if _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
