package format

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"rpminspect/internal/results"
)

// Kind identifies an output format.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindSummary
	KindSQLite
)

// Destination is where a renderer writes. An empty Path means Stdout.
type Destination struct {
	Path   string
	Stdout io.Writer
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Open returns a writer for the destination. The caller must close it.
func (d Destination) Open() (io.WriteCloser, error) {
	if d.Path == "" {
		w := d.Stdout
		if w == nil {
			w = os.Stdout
		}
		return nopCloser{w}, nil
	}
	f, err := os.Create(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", d.Path, err)
	}
	return f, nil
}

// Writer returns the underlying writer when the destination is stdout.
func (d Destination) Writer() io.Writer {
	if d.Path != "" {
		return nil
	}
	if d.Stdout == nil {
		return os.Stdout
	}
	return d.Stdout
}

// Driver renders res to dest.
type Driver func(res *results.Results, dest Destination) error

// Descriptor describes one output format.
type Descriptor struct {
	Name        string
	Kind        Kind
	Driver      Driver
	Description string
}

var (
	ErrUnknownFormat       = errors.New("invalid output format")
	ErrDestinationRequired = errors.New("output format requires -o")
)

var formats = []Descriptor{
	{
		Name:        "text",
		Kind:        KindText,
		Driver:      renderText,
		Description: "Text output suitable for the terminal or a text file. Each finding is printed with its result, waiver authorization, details, and suggested remedy, grouped by inspection.",
	},
	{
		Name:        "json",
		Kind:        KindJSON,
		Driver:      renderJSON,
		Description: "JSON output suitable for consumption by other programs. Findings are grouped in an object keyed by inspection.",
	},
	{
		Name:        "summary",
		Kind:        KindSummary,
		Driver:      renderSummary,
		Description: "A table with one row per inspection counting findings by result, followed by the worst result of the run.",
	},
	{
		Name:        "sqlite",
		Kind:        KindSQLite,
		Driver:      renderSQLite,
		Description: "Append the run and its findings to the SQLite database named with -o, creating it when missing. Useful for keeping a history of runs.",
	},
}

// All returns the registered formats; the first is the default.
func All() []Descriptor {
	out := make([]Descriptor, len(formats))
	copy(out, formats)
	return out
}

// Default returns the format used when -F is not given.
func Default() Descriptor {
	return formats[0]
}

// Lookup resolves a format name case-insensitively.
func Lookup(name string) (Descriptor, error) {
	for _, f := range formats {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: `%s`", ErrUnknownFormat, name)
}
