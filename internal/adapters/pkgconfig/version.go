package pkgconfig

import (
	"strings"

	"golang.org/x/mod/semver"
)

// AtLeast reports whether version satisfies min. Both are dotted numeric
// versions as printed by pkg-config; a missing component counts as zero.
func AtLeast(version, minVersion string) bool {
	return semver.Compare(canonical(version), canonical(minVersion)) >= 0
}

// canonical turns "1.16" into "v1.16.0". Components past the third and any
// non-numeric suffix are dropped.
func canonical(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	parts := strings.SplitN(v, ".", 4)
	nums := make([]string, 0, 3)
	for _, p := range parts {
		if len(nums) == 3 {
			break
		}
		end := 0
		for end < len(p) && p[end] >= '0' && p[end] <= '9' {
			end++
		}
		if end == 0 {
			break
		}
		nums = append(nums, strings.TrimLeft(p[:end], "0"))
		if nums[len(nums)-1] == "" {
			nums[len(nums)-1] = "0"
		}
		if end < len(p) {
			break
		}
	}
	for len(nums) < 3 {
		nums = append(nums, "0")
	}
	return "v" + strings.Join(nums, ".")
}
