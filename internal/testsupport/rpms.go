package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"rpminspect/internal/rpmpkg"
)

// WriteFakeRPM stores h as JSON at path. FakeHeaderReader reads it back, so
// gatherer tests can stage packages without building real RPM files.
func WriteFakeRPM(t testing.TB, path string, h rpmpkg.Header) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// FakeHeaderReader decodes files written by WriteFakeRPM.
func FakeHeaderReader(path string) (*rpmpkg.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var h rpmpkg.Header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode fake rpm %s: %w", path, err)
	}
	return &h, nil
}

// Binary returns a binary package header for name of arch with the given
// release and files.
func Binary(name, arch, release string, files ...rpmpkg.File) rpmpkg.Header {
	return rpmpkg.Header{
		Name:      name,
		Version:   "1.0",
		Release:   release,
		Arch:      arch,
		License:   "MIT",
		Vendor:    "Fedora Project",
		Summary:   name + " package",
		BuildHost: "buildvm-01.fedoraproject.org",
		SourceRPM: name + "-1.0-" + release + ".src.rpm",
		Files:     files,
	}
}

// Source returns a source package header for name.
func Source(name, release string, files ...rpmpkg.File) rpmpkg.Header {
	h := Binary(name, "src", release, files...)
	h.SourceRPM = ""
	return h
}

// RegularFile returns a root-owned 0644 file entry.
func RegularFile(path string) rpmpkg.File {
	return rpmpkg.File{Path: path, Mode: 0o644, Owner: "root", Group: "root", Size: 1}
}
