package core

import (
	"github.com/kuro1999/isw2-dataset/schema"
)

// SelectReleases intersects forge tags with tracker version names by
// normalized name and returns the retained tags in ascending version order.
// Tags that normalize to the same version collapse into the last one listed.
// An empty intersection yields the single synthetic HEAD release.
func SelectReleases(project string, trackerNames, forgeTags []string) schema.ReleaseSelection {
	tracked := make(map[string]struct{}, len(trackerNames))
	for _, name := range trackerNames {
		tracked[NormalizeTag(name)] = struct{}{}
	}

	byVersion := map[string]int{}
	var retained []string
	for _, tag := range forgeTags {
		norm := NormalizeTag(tag)
		if _, ok := tracked[norm]; !ok {
			continue
		}
		if idx, dup := byVersion[norm]; dup {
			retained[idx] = tag
			continue
		}
		byVersion[norm] = len(retained)
		retained = append(retained, tag)
	}
	SortVersions(retained)

	sel := schema.ReleaseSelection{
		Project:      project,
		TrackerNames: trackerNames,
		ForgeTags:    forgeTags,
		Releases:     retained,
	}
	if len(retained) == 0 {
		sel.Releases = []string{schema.HeadRelease}
		sel.FallbackToHead = true
	}
	return sel
}
