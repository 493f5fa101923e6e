package brew

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed Homebrew version string with a total ordering.
//
// Accepted shapes: dotted numeric components ("1.10.0"), an optional
// numeric revision suffix on the final component ("1.2.3_1"), and an
// optional prerelease suffix ("2.0.0-rc1"). A prerelease sorts below the
// corresponding release; missing components compare as zero, so
// "1.2" == "1.2.0".
type Version struct {
	parts    []int
	revision int
	pre      string
	raw      string
}

// ParseVersion parses s into a Version. Malformed strings (empty input,
// non-numeric components) return an error rather than comparing as the
// lowest or highest version.
func ParseVersion(s string) (Version, error) {
	if strings.TrimSpace(s) == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	v := Version{raw: s}
	rest := s

	// Split off a prerelease suffix: everything after the first "-".
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		v.pre = rest[idx+1:]
		rest = rest[:idx]
		if v.pre == "" {
			return Version{}, fmt.Errorf("invalid version %q: empty prerelease", s)
		}
	}

	// Split off a Homebrew revision suffix: "_N" on the last component.
	if idx := strings.IndexByte(rest, '_'); idx >= 0 {
		rev, err := strconv.Atoi(rest[idx+1:])
		if err != nil || rev < 0 {
			return Version{}, fmt.Errorf("invalid version %q: bad revision %q", s, rest[idx+1:])
		}
		v.revision = rev
		rest = rest[:idx]
	}

	for _, comp := range strings.Split(rest, ".") {
		n, err := strconv.Atoi(comp)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q: bad component %q", s, comp)
		}
		v.parts = append(v.parts, n)
	}

	return v, nil
}

// Compare returns -1, 0, or 1 as v is less than, equal to, or greater
// than o.
func (v Version) Compare(o Version) int {
	n := len(v.parts)
	if len(o.parts) > n {
		n = len(o.parts)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v.parts) {
			a = v.parts[i]
		}
		if i < len(o.parts) {
			b = o.parts[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}

	if v.revision != o.revision {
		if v.revision < o.revision {
			return -1
		}
		return 1
	}

	// A prerelease sorts below the release it precedes; two prereleases
	// order lexically (rc1 < rc2).
	switch {
	case v.pre == "" && o.pre != "":
		return 1
	case v.pre != "" && o.pre == "":
		return -1
	case v.pre != o.pre:
		if v.pre < o.pre {
			return -1
		}
		return 1
	}

	return 0
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// String returns the original version string.
func (v Version) String() string {
	return v.raw
}
