// Package release derives the product release tag (fc30, el8, ...) from
// build identifiers.
package release

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyProductRelease    = errors.New("unable to determine product release")
	ErrProductReleaseMismatch = errors.New("builds have different product releases")
)

// Tag returns the text after the last '.' of id with trailing '/' removed.
func Tag(id string) (string, bool) {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return "", false
	}
	tag := strings.TrimRight(id[i+1:], "/")
	if tag == "" {
		return "", false
	}
	return tag, true
}

// Resolve returns the product release shared by before and after. before is
// empty for single-build runs.
func Resolve(before, after string) (string, error) {
	afterTag, ok := Tag(after)
	if !ok {
		return "", fmt.Errorf("%w: product release for after build (%s) is empty", ErrEmptyProductRelease, after)
	}
	if before == "" {
		return afterTag, nil
	}
	beforeTag, ok := Tag(before)
	if !ok {
		return "", fmt.Errorf("%w: product release for before build (%s) is empty", ErrEmptyProductRelease, before)
	}
	if beforeTag != afterTag {
		return "", fmt.Errorf("%w (%s != %s)", ErrProductReleaseMismatch, beforeTag, afterTag)
	}
	return afterTag, nil
}
