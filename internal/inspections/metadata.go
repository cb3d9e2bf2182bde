package inspections

import (
	"context"
	"fmt"
	"strings"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
)

func inspectMetadata(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderMetadata)
	tests := ri.Config.Tests

	for _, peer := range ri.Peers.All() {
		if peer.After == nil {
			continue
		}
		h := peer.After.Header

		if tests.Vendor != "" && h.Vendor != tests.Vendor {
			rec.add(results.Entry{
				Severity: results.SeverityBad,
				Message:  fmt.Sprintf("%s has Vendor %q, expected %q", h.NEVRA(), h.Vendor, tests.Vendor),
				Remedy:   results.RemedyVendor,
			})
		}

		if len(tests.BuildHostSubdomain) > 0 && !hasAnySuffix(h.BuildHost, tests.BuildHostSubdomain) {
			rec.add(results.Entry{
				Severity: results.SeverityBad,
				Message:  fmt.Sprintf("%s was built on %q, outside %s", h.NEVRA(), h.BuildHost, strings.Join(tests.BuildHostSubdomain, ", ")),
				Remedy:   results.RemedyBuildHost,
			})
		}

		for _, field := range []struct{ name, text string }{{"Summary", h.Summary}, {"Description", h.Description}} {
			if word := badWord(field.text, tests.BadWords); word != "" {
				rec.add(results.Entry{
					Severity: results.SeverityBad,
					Message:  fmt.Sprintf("%s %s contains forbidden word %q", h.NEVRA(), field.name, word),
					Remedy:   results.RemedyBadWords,
				})
			}
		}

		if peer.Before != nil {
			compareText(rec, peer.Before.Header, h)
		}
	}
	return rec.done()
}

func compareText(rec *recorder, before, after *rpmpkg.Header) {
	if before.Summary != after.Summary {
		rec.add(results.Entry{
			Severity:   results.SeverityInfo,
			Message:    fmt.Sprintf("%s Summary changed", after.NEVRA()),
			Screendump: fmt.Sprintf("from: %s\nto:   %s", before.Summary, after.Summary),
		})
	}
	if before.Vendor != after.Vendor {
		rec.add(results.Entry{
			Severity:   results.SeverityVerify,
			WaiverAuth: results.WaivableByAnyone,
			Message:    fmt.Sprintf("%s Vendor changed from %q to %q", after.NEVRA(), before.Vendor, after.Vendor),
			Remedy:     results.RemedyVendor,
		})
	}
}

func badWord(text string, words []string) string {
	lower := strings.ToLower(text)
	for _, field := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r == '-' || r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		for _, w := range words {
			if strings.ToLower(w) == field {
				return w
			}
		}
	}
	return ""
}
