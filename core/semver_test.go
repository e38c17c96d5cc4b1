package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"v1.2.0", "1.2.0"},
		{"release-4.1.0", "4.1.0"},
		{"1.2.1", "1.2.1"},
		{"vv1", "v1"},
		{"rel-1.0", "rel-1.0"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTag(tt.in))
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"numeric not lexical", "1.10.0", "1.2.0", 1},
		{"prefixes ignored", "v1.2.0", "release-1.2.0", 0},
		{"padding with zero", "1.2", "1.2.0", 0},
		{"shorter is smaller", "1.2", "1.2.1", -1},
		{"non numeric part is zero", "1.2.0-RC1", "1.2.0", 0},
		{"garbage equals zero", "abc", "0", 0},
		{"major wins", "2.0", "1.99.99", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareVersions(tt.b, tt.a))
		})
	}
}

func TestSortVersions(t *testing.T) {
	tags := []string{"v1.10.0", "release-1.2.0", "1.2.1", "v0.9", "1.2.0"}
	SortVersions(tags)
	assert.Equal(t, []string{"v0.9", "release-1.2.0", "1.2.0", "1.2.1", "v1.10.0"}, tags, "equal versions keep input order")
}

func FuzzCompareVersions(f *testing.F) {
	f.Add("v1.2.0", "1.10", "release-1.2")
	f.Add("", "0", "a.b.c")
	f.Add("1.2.0-RC1", "1.2.0", "1.2.1")
	f.Fuzz(func(t *testing.T, a, b, c string) {
		if CompareVersions(a, a) != 0 {
			t.Fatalf("compare(%q, %q) != 0", a, a)
		}
		if CompareVersions(a, b) != -CompareVersions(b, a) {
			t.Fatalf("compare(%q, %q) is not antisymmetric", a, b)
		}
		if CompareVersions(a, b) <= 0 && CompareVersions(b, c) <= 0 && CompareVersions(a, c) > 0 {
			t.Fatalf("compare is not transitive over %q, %q, %q", a, b, c)
		}
	})
}
