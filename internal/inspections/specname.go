package inspections

import (
	"context"
	"fmt"
	"path"
	"strings"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
)

func inspectSpecName(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderSpecName)
	for _, pkg := range afterPackages(ri) {
		h := pkg.Header
		if !h.IsSource() {
			continue
		}
		want := h.Name + ".spec"
		var specs []string
		for _, f := range h.Files {
			if strings.HasSuffix(f.Path, ".spec") {
				specs = append(specs, path.Base(f.Path))
			}
		}
		switch {
		case len(specs) == 0:
			rec.add(results.Entry{
				Severity: results.SeverityBad,
				Message:  fmt.Sprintf("%s contains no spec file", h.NVR()),
				Remedy:   results.RemedySpecName,
			})
		case !contains(specs, want):
			rec.add(results.Entry{
				Severity:   results.SeverityBad,
				Message:    fmt.Sprintf("spec file name %s does not match the package name; expected %s", specs[0], want),
				Screendump: strings.Join(specs, "\n"),
				Remedy:     results.RemedySpecName,
			})
		}
	}
	return rec.done()
}
