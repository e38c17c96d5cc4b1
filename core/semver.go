package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var tagPrefix = regexp.MustCompile(`^(v|release-)`)

// NormalizeTag strips a leading "v" or "release-" from a tag name.
func NormalizeTag(tag string) string {
	return tagPrefix.ReplaceAllString(tag, "")
}

// CompareVersions compares two tags component-wise after normalization.
// Missing components count as 0 and so do components that are not integers,
// which makes "1.2.0-RC1" equal to "1.2.0".
func CompareVersions(a, b string) int {
	pa := strings.Split(NormalizeTag(a), ".")
	pb := strings.Split(NormalizeTag(b), ".")
	n := max(len(pa), len(pb))
	for i := range n {
		ai, bi := versionPart(pa, i), versionPart(pb, i)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
	}
	return 0
}

func versionPart(parts []string, i int) int64 {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.ParseInt(parts[i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SortVersions orders tags ascending in place. Equal versions keep their input order.
func SortVersions(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return CompareVersions(tags[i], tags[j]) < 0
	})
}
