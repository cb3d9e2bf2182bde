// Package rpmpkg reads RPM headers and pairs before and after packages.
package rpmpkg

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/cavaliergopher/rpm"
)

// File is one payload entry as recorded in the package header.
type File struct {
	Path   string
	Mode   fs.FileMode
	Owner  string
	Group  string
	Size   int64
	Digest string
}

// Header is the subset of RPM header tags the inspections look at.
type Header struct {
	Name        string
	Version     string
	Release     string
	Epoch       int
	Arch        string
	License     string
	Vendor      string
	Summary     string
	Description string
	BuildHost   string
	// SourceRPM is empty for source packages.
	SourceRPM string
	Files     []File
}

// IsSource reports whether the header belongs to a source package.
func (h *Header) IsSource() bool {
	return h.SourceRPM == ""
}

// NVR returns name-version-release.
func (h *Header) NVR() string {
	return h.Name + "-" + h.Version + "-" + h.Release
}

// NEVRA returns name-[epoch:]version-release.arch.
func (h *Header) NEVRA() string {
	evr := h.Version + "-" + h.Release
	if h.Epoch > 0 {
		evr = fmt.Sprintf("%d:%s", h.Epoch, evr)
	}
	return h.Name + "-" + evr + "." + h.Arch
}

// Reader loads the header of the package at path.
type Reader func(path string) (*Header, error)

// ReadFile parses the RPM at path.
func ReadFile(path string) (*Header, error) {
	pkg, err := rpm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read rpm header %s: %w", path, err)
	}
	return fromPackage(pkg), nil
}

func fromPackage(pkg *rpm.Package) *Header {
	h := &Header{
		Name:        pkg.Name(),
		Version:     pkg.Version(),
		Release:     pkg.Release(),
		Epoch:       pkg.Epoch(),
		Arch:        pkg.Architecture(),
		License:     pkg.License(),
		Vendor:      pkg.Vendor(),
		Summary:     pkg.Summary(),
		Description: pkg.Description(),
		BuildHost:   pkg.BuildHost(),
		SourceRPM:   pkg.SourceRPM(),
	}
	if h.IsSource() {
		h.Arch = "src"
	}
	for _, fi := range pkg.Files() {
		h.Files = append(h.Files, File{
			Path:   fi.Name(),
			Mode:   fi.Mode(),
			Owner:  fi.Owner(),
			Group:  fi.Group(),
			Size:   fi.Size(),
			Digest: fi.Digest(),
		})
	}
	return h
}

// IsRPMPath reports whether name looks like an RPM file.
func IsRPMPath(name string) bool {
	return strings.HasSuffix(name, ".rpm")
}
