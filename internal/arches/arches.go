// Package arches validates the -a architecture filter against the
// architectures the builds actually provide.
package arches

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrUnsupportedArchitecture = errors.New("unsupported architecture specified")

// Split turns the comma-separated -a option into tokens. Blank tokens are
// dropped; duplicates are preserved.
func Split(option string) []string {
	var out []string
	for _, token := range strings.Split(option, ",") {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// Validate returns requested unchanged when every token is in supported.
// The first unsupported token fails the whole list.
func Validate(requested, supported []string) ([]string, error) {
	for _, arch := range requested {
		if !slices.Contains(supported, arch) {
			return nil, fmt.Errorf("%w: `%s`", ErrUnsupportedArchitecture, arch)
		}
	}
	out := make([]string, len(requested))
	copy(out, requested)
	return out, nil
}
