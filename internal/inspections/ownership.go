package inspections

import (
	"context"
	"fmt"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
)

func inspectOwnership(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderOwnership)
	tests := ri.Config.Tests

	for _, peer := range ri.Peers.All() {
		if peer.After == nil || peer.After.Header.IsSource() {
			continue
		}
		h := peer.After.Header
		for _, f := range h.Files {
			if contains(tests.ForbiddenOwners, f.Owner) || contains(tests.ForbiddenGroups, f.Group) {
				rec.add(results.Entry{
					Severity: results.SeverityBad,
					Message:  fmt.Sprintf("%s in %s is owned by %s:%s", f.Path, h.NEVRA(), f.Owner, f.Group),
					Remedy:   results.RemedyForbiddenOwner,
				})
				continue
			}
			if f.Mode.IsRegular() && f.Mode.Perm()&0o111 != 0 && inBinPath(f.Path, tests.BinPaths) &&
				(f.Owner != tests.BinOwner || f.Group != tests.BinGroup) {
				rec.add(results.Entry{
					Severity:   results.SeverityVerify,
					WaiverAuth: results.WaivableByAnyone,
					Message:    fmt.Sprintf("%s in %s is owned by %s:%s, expected %s:%s", f.Path, h.NEVRA(), f.Owner, f.Group, tests.BinOwner, tests.BinGroup),
					Remedy:     results.RemedyBinOwnership,
				})
			}
		}

		if peer.Before == nil {
			continue
		}
		before := fileSet(peer.Before.Header)
		for _, f := range h.Files {
			old, ok := before[f.Path]
			if !ok || (old.Owner == f.Owner && old.Group == f.Group) {
				continue
			}
			rec.add(results.Entry{
				Severity:   results.SeverityVerify,
				WaiverAuth: results.WaivableByAnyone,
				Message:    fmt.Sprintf("%s in %s changed owner from %s:%s to %s:%s", f.Path, h.NEVRA(), old.Owner, old.Group, f.Owner, f.Group),
				Remedy:     results.RemedyOwnershipChanged,
			})
		}
	}
	return rec.done()
}
