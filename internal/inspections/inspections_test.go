package inspections

import (
	"context"
	"strings"
	"testing"

	"rpminspect/internal/config"
	"rpminspect/internal/inspect"
	"rpminspect/internal/logging"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
	"rpminspect/internal/testsupport"
)

const licenses = `{
  "MIT": {"fedora_abbrev": "MIT", "spdx_abbrev": "MIT", "approved": "yes"},
  "GPLv2+": {"fedora_abbrev": "GPLv2+", "spdx_abbrev": "GPL-2.0-or-later", "approved": "yes"},
  "Proprietary": {"approved": "no"}
}`

func newRun(t *testing.T, cfg *config.Config) *inspect.RunContext {
	t.Helper()
	return &inspect.RunContext{
		Config:         cfg,
		Logger:         logging.NewNop(),
		ProductRelease: "fc40",
		After:          "after",
		Threshold:      results.SeverityVerify,
		Peers:          rpmpkg.NewPeers(),
		Results:        results.New(results.Meta{}),
	}
}

func addAfter(ri *inspect.RunContext, h rpmpkg.Header) {
	ri.Peers.AddAfter(&rpmpkg.Package{Path: h.NEVRA() + ".rpm", Header: &h})
}

func addBefore(ri *inspect.RunContext, h rpmpkg.Header) {
	ri.Before = "before"
	ri.Peers.AddBefore(&rpmpkg.Package{Path: h.NEVRA() + ".rpm", Header: &h})
}

func entries(ri *inspect.RunContext, header string) []results.Entry {
	var out []results.Entry
	for _, e := range ri.Results.Entries() {
		if e.Header == header {
			out = append(out, e)
		}
	}
	return out
}

func TestRegistryOrderAndSingleBuild(t *testing.T) {
	reg := Registry()
	want := []string{"license", "emptyrpm", "metadata", "disttag", "specname", "removedfiles", "addedfiles", "ownership"}
	all := reg.All()
	if len(all) != len(want) {
		t.Fatalf("registry has %d inspections", len(all))
	}
	for i, d := range all {
		if d.Name != want[i] {
			t.Fatalf("position %d = %s, want %s", i, d.Name, want[i])
		}
	}
	if d, _ := reg.Lookup("removedfiles"); d.SingleBuild {
		t.Fatal("removedfiles needs two builds")
	}
	if d, _ := reg.Lookup("LICENSE"); !d.SingleBuild {
		t.Fatal("license should run on a single build")
	}
}

func TestLicenseApproved(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t, testsupport.WithLicenseDB(licenses)))
	h := testsupport.Binary("zsh", "x86_64", "1.fc40", testsupport.RegularFile("/usr/bin/zsh"))
	h.License = "MIT and (GPL-2.0-or-later or MIT)"
	addAfter(ri, h)

	if !inspectLicense(context.Background(), ri) {
		t.Fatal("expected pass")
	}
	got := entries(ri, results.HeaderLicense)
	if len(got) != 1 || got[0].Severity != results.SeverityOK {
		t.Fatalf("entries = %#v", got)
	}
}

func TestLicenseUnapproved(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t, testsupport.WithLicenseDB(licenses)))
	h := testsupport.Binary("zsh", "x86_64", "1.fc40")
	h.License = "MIT and Proprietary"
	addAfter(ri, h)
	empty := testsupport.Binary("zsh-doc", "noarch", "1.fc40")
	empty.License = ""
	addAfter(ri, empty)

	if inspectLicense(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderLicense)
	if len(got) != 2 {
		t.Fatalf("entries = %#v", got)
	}
	if got[0].Screendump != "Proprietary" {
		t.Fatalf("screendump = %q", got[0].Screendump)
	}
	if !strings.Contains(got[1].Message, "empty License") {
		t.Fatalf("message = %q", got[1].Message)
	}
}

func TestLicenseMissingDatabase(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "1.fc40"))
	if inspectLicense(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderLicense)
	if len(got) != 1 || got[0].Remedy != results.RemedyLicenseDB {
		t.Fatalf("entries = %#v", got)
	}
}

func TestEmptyRPM(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40", testsupport.RegularFile("/usr/bin/zsh")))
	addAfter(ri, testsupport.Binary("zsh-doc", "noarch", "2.fc40"))
	addAfter(ri, testsupport.Binary("zsh-meta", "noarch", "2.fc40"))
	addBefore(ri, testsupport.Binary("zsh-doc", "noarch", "1.fc40", testsupport.RegularFile("/usr/share/doc/zsh/README")))
	addBefore(ri, testsupport.Binary("zsh-meta", "noarch", "1.fc40"))

	if inspectEmptyRPM(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderEmptyRPM)
	if len(got) != 2 {
		t.Fatalf("entries = %#v", got)
	}
	if got[0].Severity != results.SeverityVerify || !strings.Contains(got[0].Message, "became empty") {
		t.Fatalf("first = %#v", got[0])
	}
	if got[1].Severity != results.SeverityInfo {
		t.Fatalf("second = %#v", got[1])
	}
}

func TestEmptyRPMThresholdBad(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	ri.Threshold = results.SeverityBad
	addAfter(ri, testsupport.Binary("zsh-doc", "noarch", "2.fc40"))
	if !inspectEmptyRPM(context.Background(), ri) {
		t.Fatal("VERIFY finding should pass a bad threshold")
	}
}

func TestMetadata(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tests.BadWords = []string{"crap"}
	ri := newRun(t, cfg)
	h := testsupport.Binary("zsh", "x86_64", "1.fc40")
	h.Vendor = "Acme"
	h.BuildHost = "laptop.example.com"
	h.Description = "This is a crap shell."
	addAfter(ri, h)

	if inspectMetadata(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderMetadata)
	if len(got) != 3 {
		t.Fatalf("entries = %#v", got)
	}
	wantRemedies := []string{results.RemedyVendor, results.RemedyBuildHost, results.RemedyBadWords}
	for i, e := range got {
		if e.Remedy != wantRemedies[i] {
			t.Fatalf("entry %d remedy = %q", i, e.Remedy)
		}
	}
}

func TestMetadataClean(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40"))
	addBefore(ri, testsupport.Binary("zsh", "x86_64", "1.fc40"))
	if !inspectMetadata(context.Background(), ri) {
		t.Fatalf("expected pass: %#v", ri.Results.Entries())
	}
}

func TestDistTag(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Source("zsh", "1"))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "1"))
	if inspectDistTag(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	if got := entries(ri, results.HeaderDistTag); len(got) != 1 || got[0].Remedy != results.RemedyDistTag {
		t.Fatalf("entries = %#v", got)
	}

	ok := newRun(t, testsupport.NewConfig(t))
	addAfter(ok, testsupport.Source("zsh", "1.fc40"))
	if !inspectDistTag(context.Background(), ok) {
		t.Fatal("expected pass")
	}
}

func TestSpecName(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Source("zsh", "1.fc40", testsupport.RegularFile("zsh.spec"), testsupport.RegularFile("zsh-5.9.tar.xz")))
	if !inspectSpecName(context.Background(), ri) {
		t.Fatal("expected pass")
	}

	bad := newRun(t, testsupport.NewConfig(t))
	addAfter(bad, testsupport.Source("zsh", "1.fc40", testsupport.RegularFile("z-shell.spec")))
	if inspectSpecName(context.Background(), bad) {
		t.Fatal("expected failure")
	}
	got := entries(bad, results.HeaderSpecName)
	if len(got) != 1 || !strings.Contains(got[0].Message, "expected zsh.spec") {
		t.Fatalf("entries = %#v", got)
	}
}

func TestRemovedFiles(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40", testsupport.RegularFile("/usr/bin/zsh")))
	addBefore(ri, testsupport.Binary("zsh", "x86_64", "1.fc40",
		testsupport.RegularFile("/usr/bin/zsh"),
		testsupport.RegularFile("/usr/bin/zsh-old"),
		testsupport.RegularFile("/etc/sudoers.d/zsh")))
	addBefore(ri, testsupport.Binary("zsh-html", "noarch", "1.fc40"))

	if inspectRemovedFiles(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderRemovedFiles)
	if len(got) != 3 {
		t.Fatalf("entries = %#v", got)
	}
	if got[1].Severity != results.SeverityBad || got[1].WaiverAuth != results.WaivableBySecurity {
		t.Fatalf("security removal = %#v", got[1])
	}
	if !strings.Contains(got[2].Message, "zsh-html.noarch") {
		t.Fatalf("removed subpackage = %#v", got[2])
	}
}

func TestAddedFiles(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40",
		testsupport.RegularFile("/usr/bin/zsh"),
		testsupport.RegularFile("/usr/share/zsh/new"),
		testsupport.RegularFile("/usr/local/bin/zsh")))
	addBefore(ri, testsupport.Binary("zsh", "x86_64", "1.fc40", testsupport.RegularFile("/usr/bin/zsh")))

	if inspectAddedFiles(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderAddedFiles)
	if len(got) != 2 {
		t.Fatalf("entries = %#v", got)
	}
	if got[0].Severity != results.SeverityBad || !strings.Contains(got[0].Message, "/usr/local/bin/zsh") {
		t.Fatalf("forbidden = %#v", got[0])
	}
	if got[1].Severity != results.SeverityInfo {
		t.Fatalf("added = %#v", got[1])
	}
}

func TestOwnership(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	exe := testsupport.RegularFile("/usr/bin/zsh")
	exe.Mode = 0o755
	exe.Owner = "bin"
	built := testsupport.RegularFile("/usr/share/zsh/x")
	built.Owner = "mockbuild"
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40", exe, built))

	if inspectOwnership(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderOwnership)
	if len(got) != 2 {
		t.Fatalf("entries = %#v", got)
	}
	if got[0].Remedy != results.RemedyBinOwnership || got[1].Remedy != results.RemedyForbiddenOwner {
		t.Fatalf("entries = %#v", got)
	}
}

func TestOwnershipChanged(t *testing.T) {
	ri := newRun(t, testsupport.NewConfig(t))
	after := testsupport.RegularFile("/etc/zshrc")
	after.Group = "wheel"
	addAfter(ri, testsupport.Binary("zsh", "x86_64", "2.fc40", after))
	addBefore(ri, testsupport.Binary("zsh", "x86_64", "1.fc40", testsupport.RegularFile("/etc/zshrc")))

	if inspectOwnership(context.Background(), ri) {
		t.Fatal("expected failure")
	}
	got := entries(ri, results.HeaderOwnership)
	if len(got) != 1 || got[0].Remedy != results.RemedyOwnershipChanged {
		t.Fatalf("entries = %#v", got)
	}
}
