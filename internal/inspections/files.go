package inspections

import (
	"context"
	"fmt"
	"sort"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
	"rpminspect/internal/rpmpkg"
)

func inspectRemovedFiles(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderRemovedFiles)
	security := ri.Config.Tests.SecurityPathPrefix

	for _, peer := range ri.Peers.All() {
		if peer.Before == nil || peer.Before.Header.IsSource() {
			continue
		}
		before := peer.Before.Header
		if peer.After == nil {
			rec.add(results.Entry{
				Severity:   results.SeverityVerify,
				WaiverAuth: results.WaivableByAnyone,
				Message:    fmt.Sprintf("subpackage %s.%s is gone from the after build", before.Name, before.Arch),
				Remedy:     results.RemedyRemovedFiles,
			})
			continue
		}
		after := fileSet(peer.After.Header)
		for _, f := range before.Files {
			if _, ok := after[f.Path]; ok {
				continue
			}
			e := results.Entry{
				Severity:   results.SeverityVerify,
				WaiverAuth: results.WaivableByAnyone,
				Message:    fmt.Sprintf("%s removed from %s.%s", f.Path, before.Name, before.Arch),
				Remedy:     results.RemedyRemovedFiles,
			}
			if hasAnyPrefix(f.Path, security) {
				e.Severity = results.SeverityBad
				e.WaiverAuth = results.WaivableBySecurity
			}
			rec.add(e)
		}
	}
	return rec.done()
}

func inspectAddedFiles(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderAddedFiles)

	for _, peer := range ri.Peers.All() {
		if peer.After == nil || peer.After.Header.IsSource() {
			continue
		}
		after := peer.After.Header
		var added []rpmpkg.File
		if peer.Before == nil {
			rec.add(results.Entry{
				Severity: results.SeverityInfo,
				Message:  fmt.Sprintf("new subpackage %s", after.NEVRA()),
			})
			added = after.Files
		} else {
			before := fileSet(peer.Before.Header)
			for _, f := range after.Files {
				if _, ok := before[f.Path]; !ok {
					added = append(added, f)
				}
			}
		}
		sort.Slice(added, func(i, j int) bool { return added[i].Path < added[j].Path })
		for _, f := range added {
			checkAdded(rec, ri, after, f, peer.Before == nil)
		}
	}
	return rec.done()
}

func checkAdded(rec *recorder, ri *inspect.RunContext, h *rpmpkg.Header, f rpmpkg.File, newPackage bool) {
	tests := ri.Config.Tests
	where := fmt.Sprintf("%s.%s", h.Name, h.Arch)
	switch {
	case hasAnyPrefix(f.Path, tests.ForbiddenPathPrefixes) || hasAnySuffix(f.Path, tests.ForbiddenPathSuffixes):
		rec.add(results.Entry{
			Severity: results.SeverityBad,
			Message:  fmt.Sprintf("%s in %s is in a forbidden location", f.Path, where),
			Remedy:   results.RemedyAddedFiles,
		})
	case hasAnyPrefix(f.Path, tests.SecurityPathPrefix):
		rec.add(results.Entry{
			Severity:   results.SeverityVerify,
			WaiverAuth: results.WaivableBySecurity,
			Message:    fmt.Sprintf("%s added to %s in a security path", f.Path, where),
		})
	case !newPackage:
		rec.add(results.Entry{
			Severity: results.SeverityInfo,
			Message:  fmt.Sprintf("%s added to %s", f.Path, where),
		})
	}
}
