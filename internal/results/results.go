// Package results holds the findings produced by inspections and the
// severity and waiver vocabulary they are reported with.
package results

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Severity orders findings from harmless to blocking.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityInfo
	SeverityWaived
	SeverityVerify
	SeverityBad
)

var severityNames = [...]string{"OK", "INFO", "WAIVED", "VERIFY", "BAD"}

func (s Severity) String() string {
	if s < SeverityOK || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ErrUnknownSeverity is returned by ParseSeverity.
var ErrUnknownSeverity = errors.New("unknown result severity")

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Severity(i), nil
		}
	}
	return SeverityOK, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// WaiverAuth says who may waive a finding.
type WaiverAuth int

const (
	NotWaivable WaiverAuth = iota
	WaivableByAnyone
	WaivableBySecurity
)

func (w WaiverAuth) String() string {
	switch w {
	case WaivableByAnyone:
		return "Anyone"
	case WaivableBySecurity:
		return "Security"
	default:
		return "Not Waivable"
	}
}

// Entry is one finding recorded by an inspection.
type Entry struct {
	Severity   Severity
	WaiverAuth WaiverAuth
	// Header names the inspection that produced the entry.
	Header     string
	Message    string
	Screendump string
	Remedy     string
}

// Meta describes the run the results belong to.
type Meta struct {
	RunID          string
	ProductRelease string
	Before         string
	After          string
	Started        time.Time
}

// Results is the ordered, append-only finding list for one run. It is safe
// for concurrent use.
type Results struct {
	mu      sync.Mutex
	meta    Meta
	entries []Entry
}

// New returns an empty result set for the run described by meta.
func New(meta Meta) *Results {
	if meta.Started.IsZero() {
		meta.Started = time.Now()
	}
	return &Results{meta: meta}
}

// Meta returns the run description.
func (r *Results) Meta() Meta {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meta
}

// Add appends e.
func (r *Results) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Len reports how many entries have been added.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Entries returns a copy of the entries in insertion order.
func (r *Results) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Worst returns the highest severity recorded, or SeverityOK when empty.
func (r *Results) Worst() Severity {
	r.mu.Lock()
	defer r.mu.Unlock()
	worst := SeverityOK
	for _, e := range r.entries {
		if e.Severity > worst {
			worst = e.Severity
		}
	}
	return worst
}

// Group pairs a header with its entries.
type Group struct {
	Header  string
	Entries []Entry
}

// ByHeader groups entries by header, ordered by each header's first entry.
func (r *Results) ByHeader() []Group {
	var groups []Group
	index := map[string]int{}
	for _, e := range r.Entries() {
		i, ok := index[e.Header]
		if !ok {
			i = len(groups)
			index[e.Header] = i
			groups = append(groups, Group{Header: e.Header})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}
