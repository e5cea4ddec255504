// Package modpath derives a module identifier from a source file path.
//
// A module is the directory segment that directly follows a known
// container directory, e.g. "billing" in "apps/web/modules/billing/x.ts".
package modpath

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultContainers lists the container directory names in lookup order.
var DefaultContainers = []string{"libs", "modules"}

// ErrModuleNotFound is returned when no container segment (or no segment
// after it) exists in the path.
var ErrModuleNotFound = errors.New("module not found")

// Split breaks path into segments. Backslash is tried first; forward
// slash is used when the backslash split yields a single segment.
func Split(path string) []string {
	segs := strings.Split(path, `\`)
	if len(segs) == 1 {
		segs = strings.Split(path, "/")
	}
	return segs
}

// Resolve returns the module identifier for path. Containers are tried in
// order and the first one present decides; nil means DefaultContainers.
func Resolve(path string, containers []string) (string, error) {
	if len(containers) == 0 {
		containers = DefaultContainers
	}
	segs := Split(path)
	for _, c := range containers {
		i := slices.Index(segs, c)
		if i < 0 {
			continue
		}
		if i+1 >= len(segs) || segs[i+1] == "" {
			return "", fmt.Errorf("%w: %s has nothing after %q", ErrModuleNotFound, path, c)
		}
		return segs[i+1], nil
	}
	return "", fmt.Errorf("%w: %s contains none of %s", ErrModuleNotFound, path, strings.Join(containers, ", "))
}
