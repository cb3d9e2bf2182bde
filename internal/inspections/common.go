package inspections

import (
	"path"
	"strings"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
)

// recorder accumulates one inspection's findings and tracks whether any of
// them crossed the run's failure threshold.
type recorder struct {
	ri     *inspect.RunContext
	header string
	found  bool
	ok     bool
}

func newRecorder(ri *inspect.RunContext, header string) *recorder {
	return &recorder{ri: ri, header: header, ok: true}
}

func (r *recorder) add(e results.Entry) {
	e.Header = r.header
	r.ri.Results.Add(e)
	r.found = true
	if r.ri.Fails(e.Severity) {
		r.ok = false
	}
}

// done records an OK entry when nothing was reported and returns the
// inspection result.
func (r *recorder) done() bool {
	if !r.found {
		r.ri.Results.Add(results.Entry{Severity: results.SeverityOK, Header: r.header})
	}
	return r.ok
}

// afterPackages returns every package of the after build in peer order.
func afterPackages(ri *inspect.RunContext) []*rpmpkg.Package {
	var out []*rpmpkg.Package
	for _, peer := range ri.Peers.All() {
		if peer.After != nil {
			out = append(out, peer.After)
		}
	}
	return out
}

func fileSet(h *rpmpkg.Header) map[string]rpmpkg.File {
	out := make(map[string]rpmpkg.File, len(h.Files))
	for _, f := range h.Files {
		out[f.Path] = f
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, p := range suffixes {
		if p != "" && strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// inBinPath reports whether p sits directly in one of dirs.
func inBinPath(p string, dirs []string) bool {
	dir := path.Dir(p)
	for _, d := range dirs {
		if strings.TrimSuffix(d, "/") == dir {
			return true
		}
	}
	return false
}
