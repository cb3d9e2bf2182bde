package inspect

import (
	"log/slog"

	"rpminspect/internal/config"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
)

// RunContext is the state one rpminspect invocation threads through build
// acquisition, every inspection driver, and the output renderer.
type RunContext struct {
	Config *config.Config
	Logger *slog.Logger
	RunID  string

	// Tests is the effective selection mask.
	Tests Mask

	ProductRelease string
	// Arches restricts acquisition; empty means every architecture.
	Arches []string

	// Before is empty for single-build runs.
	Before string
	After  string

	Workdir string
	// Worksubdir is the per-run directory below Workdir, set by the gatherer.
	Worksubdir string

	Keep      bool
	Verbose   bool
	FetchOnly bool

	// Threshold is the lowest severity that fails an inspection.
	Threshold results.Severity

	// BuildType is "rpm" or "module" for Koji builds, "local" otherwise.
	BuildType string

	Peers   *rpmpkg.Peers
	Results *results.Results
}

// SingleBuild reports whether only an after build was given.
func (ri *RunContext) SingleBuild() bool {
	return ri.Before == ""
}

// Fails reports whether a result of severity s fails its inspection.
func (ri *RunContext) Fails(s results.Severity) bool {
	return s >= ri.Threshold
}

// ArchAllowed reports whether arch passes the -a filter.
func (ri *RunContext) ArchAllowed(arch string) bool {
	if len(ri.Arches) == 0 {
		return true
	}
	for _, a := range ri.Arches {
		if a == arch {
			return true
		}
	}
	return false
}
