package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kuro1999/isw2-dataset/schema"
)

func TestSelectReleases(t *testing.T) {
	t.Run("semver order with duplicate normalized tags", func(t *testing.T) {
		sel := SelectReleases("PRJ",
			[]string{"1.2.0", "1.2.1", "1.10.0"},
			[]string{"v1.10.0", "release-1.2.0", "1.2.1", "v1.2.0"})
		assert.Equal(t, []string{"v1.2.0", "1.2.1", "v1.10.0"}, sel.Releases)
		assert.False(t, sel.FallbackToHead)
		assert.Equal(t, "PRJ", sel.Project)
	})

	t.Run("untracked tags are dropped", func(t *testing.T) {
		sel := SelectReleases("PRJ", []string{"4.0.0"}, []string{"v3.0.0", "4.0.0", "nightly"})
		assert.Equal(t, []string{"4.0.0"}, sel.Releases)
	})

	t.Run("prefixed tracker names match bare tags", func(t *testing.T) {
		sel := SelectReleases("PRJ", []string{"v2.0"}, []string{"2.0"})
		assert.Equal(t, []string{"2.0"}, sel.Releases)
	})

	t.Run("empty intersection falls back to HEAD", func(t *testing.T) {
		sel := SelectReleases("PRJ", []string{"9.9"}, []string{"v1.0"})
		assert.Equal(t, []string{schema.HeadRelease}, sel.Releases)
		assert.True(t, sel.FallbackToHead)
	})

	t.Run("no inputs", func(t *testing.T) {
		sel := SelectReleases("PRJ", nil, nil)
		assert.Equal(t, []string{schema.HeadRelease}, sel.Releases)
	})
}
