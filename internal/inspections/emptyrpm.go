package inspections

import (
	"context"
	"fmt"

	"rpminspect/internal/inspect"
	"rpminspect/internal/results"
)

func inspectEmptyRPM(_ context.Context, ri *inspect.RunContext) bool {
	rec := newRecorder(ri, results.HeaderEmptyRPM)
	for _, peer := range ri.Peers.All() {
		if peer.After == nil || peer.After.Header.IsSource() || len(peer.After.Header.Files) > 0 {
			continue
		}
		h := peer.After.Header
		if peer.Before != nil && len(peer.Before.Header.Files) == 0 {
			rec.add(results.Entry{
				Severity: results.SeverityInfo,
				Message:  fmt.Sprintf("%s continues to be empty (no payloads)", h.NEVRA()),
			})
			continue
		}
		msg := fmt.Sprintf("%s has no payload", h.NEVRA())
		if peer.Before != nil {
			msg = fmt.Sprintf("%s became empty (no payloads)", h.NEVRA())
		}
		rec.add(results.Entry{
			Severity:   results.SeverityVerify,
			WaiverAuth: results.WaivableByAnyone,
			Message:    msg,
			Remedy:     results.RemedyEmptyRPM,
		})
	}
	return rec.done()
}
