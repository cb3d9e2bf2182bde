package inspect

import (
	"fmt"
	"strings"
)

type selectionMode int

const (
	modeUnset selectionMode = iota
	modeInclude
	modeExclude
)

// Selection builds the enabled-inspection mask from -T (include) and -E
// (exclude) lists. A Selection has at most one mode; the zero mode means every
// registered inspection runs.
type Selection struct {
	reg  *Registry
	mode selectionMode
	mask Mask
}

// NewSelection starts an unset selection over reg.
func NewSelection(reg *Registry) *Selection {
	return &Selection{reg: reg}
}

// ParseSelection applies includes and then excludes. Supplying both kinds is
// a conflict before any token is looked at.
func ParseSelection(reg *Registry, includes, excludes []string) (*Selection, error) {
	sel := NewSelection(reg)
	if len(includes) > 0 && len(excludes) > 0 {
		return nil, ErrConflictingSelection
	}
	for _, list := range includes {
		if err := sel.Include(list); err != nil {
			return nil, err
		}
	}
	for _, list := range excludes {
		if err := sel.Exclude(list); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

// Include enables each inspection named in the comma-separated list.
func (s *Selection) Include(list string) error {
	if s.mode == modeExclude {
		return ErrConflictingSelection
	}
	if s.mode == modeUnset {
		s.mode = modeInclude
		s.mask = 0
	}
	return s.apply(list, func(bit Mask) { s.mask |= bit }, func() { s.mask = MaskAll })
}

// Exclude disables each inspection named in the comma-separated list.
func (s *Selection) Exclude(list string) error {
	if s.mode == modeInclude {
		return ErrConflictingSelection
	}
	if s.mode == modeUnset {
		s.mode = modeExclude
		s.mask = MaskAll
	}
	return s.apply(list, func(bit Mask) { s.mask &^= bit }, func() { s.mask = 0 })
}

func (s *Selection) apply(list string, set func(Mask), all func()) error {
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if strings.EqualFold(token, AllName) {
			all()
			continue
		}
		d, ok := s.reg.Lookup(token)
		if !ok {
			return fmt.Errorf("%w: `%s`", ErrUnknownInspection, token)
		}
		set(d.Bit)
	}
	return nil
}

// Mask returns the effective mask: every registered inspection when no list
// was applied.
func (s *Selection) Mask() Mask {
	if s.mode == modeUnset {
		return MaskAll
	}
	return s.mask
}

// Explicit reports whether -T or -E was applied.
func (s *Selection) Explicit() bool {
	return s.mode != modeUnset
}

// Enabled returns the registered inspections the mask selects, in order.
func (s *Selection) Enabled() []Descriptor {
	mask := s.Mask()
	var out []Descriptor
	for _, d := range s.reg.All() {
		if mask.Has(d.Bit) {
			out = append(out, d)
		}
	}
	return out
}
