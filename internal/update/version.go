package update

import (
	"strings"

	"golang.org/x/mod/semver"
)

// canonical prefixes "v" so versions compare under the semver rules.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsNewer reports whether latest is a strictly newer version than current.
// Development builds ("dev", "unknown") never count as outdated.
func IsNewer(latest, current string) bool {
	if current == "dev" || current == "unknown" || current == "" {
		return false
	}
	return semver.Compare(canonical(latest), canonical(current)) > 0
}
