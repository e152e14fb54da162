package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a scheduler release number.
type Version struct {
	Major, Minor, Patch int
}

// IllegalNameVersion is the first release rejecting '.' and '+' in node names.
var IllegalNameVersion = Version{8, 7, 2}

var versionPattern = regexp.MustCompile(`CondorVersion:\s*([\d.]+)`)

// ParseVersion extracts the release from the output of the version command,
// e.g. "$CondorVersion: 8.8.3 Jun 03 2019 BuildID: ... $".
func ParseVersion(info string) (Version, error) {
	m := versionPattern.FindStringSubmatch(info)
	if m == nil {
		return Version{}, fmt.Errorf("no CondorVersion in %q", strings.TrimSpace(info))
	}

	parts := strings.Split(strings.Trim(m[1], "."), ".")
	nums := make([]int, 3)
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: %w", m[1], err)
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor > o.Minor
	}
	return v.Patch >= o.Patch
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
