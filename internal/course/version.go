package course

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrDowngrade is returned when an import would replace a course with an
// older content version.
var ErrDowngrade = errors.New("course version is older than the stored one")

// canonicalVersion accepts "1.2.0" and "v1.2.0" alike.
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func checkVersion(v string) error {
	if !semver.IsValid(canonicalVersion(v)) {
		return fmt.Errorf("%q is not a semantic version", v)
	}
	return nil
}

// CheckUpgrade reports whether next may replace current in a catalog.
// Unversioned courses always replace each other. Equal versions are
// allowed so that re-imports are idempotent.
func CheckUpgrade(current, next *Course) error {
	if current == nil || current.Version == "" || next.Version == "" {
		return nil
	}
	if semver.Compare(canonicalVersion(next.Version), canonicalVersion(current.Version)) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrDowngrade, next.Version, current.Version)
	}
	return nil
}
