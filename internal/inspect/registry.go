package inspect

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// AllName selects or deselects every registered inspection.
const AllName = "ALL"

// MaxInspections is the number of bits in a Mask.
const MaxInspections = 64

// Mask has bit i set when the inspection at registry position i is enabled.
type Mask uint64

// MaskAll enables every bit.
const MaskAll = ^Mask(0)

// Has reports whether any bit of bit is set in m.
func (m Mask) Has(bit Mask) bool {
	return m&bit != 0
}

// Count returns the number of enabled bits.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// Driver runs one inspection against the run context. It returns false when
// the inspection recorded a failing result.
type Driver func(ctx context.Context, ri *RunContext) bool

// Descriptor describes one registered inspection.
type Descriptor struct {
	Name string
	Bit  Mask
	// SingleBuild is true when the inspection can run with only an after build.
	SingleBuild bool
	Driver      Driver
	Description string
}

var (
	ErrUnknownInspection    = errors.New("unknown test specified")
	ErrConflictingSelection = errors.New("the -T and -E options are mutually exclusive")
	ErrRegistryFull         = errors.New("too many inspections registered")
	ErrDuplicateInspection  = errors.New("duplicate inspection name")
)

// Registry is the ordered, immutable inspection list. Position is execution
// and listing order.
type Registry struct {
	items []Descriptor
}

// Spec is the registration input for one inspection; its bit is assigned
// from its position.
type Spec struct {
	Name        string
	SingleBuild bool
	Driver      Driver
	Description string
}

// NewRegistry assigns one-hot bits in order and validates names.
func NewRegistry(specs ...Spec) (*Registry, error) {
	if len(specs) > MaxInspections {
		return nil, fmt.Errorf("%w: %d > %d", ErrRegistryFull, len(specs), MaxInspections)
	}
	reg := &Registry{items: make([]Descriptor, 0, len(specs))}
	seen := make(map[string]struct{}, len(specs))
	for i, s := range specs {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" || strings.EqualFold(key, AllName) || strings.Contains(key, ",") {
			return nil, fmt.Errorf("inspection name %q is reserved or invalid", s.Name)
		}
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateInspection, s.Name)
		}
		if s.Driver == nil {
			return nil, fmt.Errorf("inspection %s has no driver", s.Name)
		}
		seen[key] = struct{}{}
		reg.items = append(reg.items, Descriptor{
			Name:        s.Name,
			Bit:         Mask(1) << uint(i),
			SingleBuild: s.SingleBuild,
			Driver:      s.Driver,
			Description: s.Description,
		})
	}
	return reg, nil
}

// MustRegistry is NewRegistry for static tables.
func MustRegistry(specs ...Spec) *Registry {
	reg, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// All returns the descriptors in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of registered inspections.
func (r *Registry) Len() int {
	return len(r.items)
}

// Lookup resolves name case-insensitively.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	name = strings.TrimSpace(name)
	for _, d := range r.items {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Mask returns the mask with every registered inspection enabled.
func (r *Registry) Mask() Mask {
	if len(r.items) == MaxInspections {
		return MaskAll
	}
	return Mask(1)<<uint(len(r.items)) - 1
}
