package inspections

import (
	"context"
	"fmt"
	"strings"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
)

func inspectDistTag(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderDistTag)
	if ri.ProductRelease == "" {
		return rec.done()
	}
	want := "." + ri.ProductRelease
	for _, pkg := range afterPackages(ri) {
		h := pkg.Header
		if !h.IsSource() {
			continue
		}
		if !strings.Contains(h.Release, want) {
			rec.add(results.Entry{
				Severity: results.SeverityBad,
				Message:  fmt.Sprintf("Release %q of %s does not carry the %s dist tag", h.Release, h.NVR(), want),
				Remedy:   results.RemedyDistTag,
			})
		}
	}
	return rec.done()
}
