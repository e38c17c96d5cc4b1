//go:build integration

// Package integration contains end-to-end tests for the isw2 binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawDataset = `Version,File Name,Method Name,LOC,Buggy
1.0,A.java,void f(),4,No
1.0,A.java,void f(),4,No
1.2,A.java,void f(),4,No
1.2,B.java,int g(int),9,Yes
1.10,B.java,int g(int),9,Yes
1.10,C.java,void h(),2,No
`

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dataset_prj.csv")
	require.NoError(t, os.WriteFile(path, []byte(rawDataset), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// TestPostProcessChain runs dedup with a cut followed by reduce, as the build does.
func TestPostProcessChain(t *testing.T) {
	dir := t.TempDir()
	raw := writeDataset(t, dir)
	cut := filepath.Join(dir, "cut.csv")
	final := filepath.Join(dir, "final.csv")

	_, err := runCommand(t, dir, "--color", "no", "postprocess", "dedup", raw, cut, "--cut", "1.2")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Version,File Name,Method Name,LOC,Buggy",
		"1.0,A.java,void f(),4,No",
		"1.2,A.java,void f(),4,No",
		"1.2,B.java,int g(int),9,Yes",
	}, readLines(t, cut))

	_, err = runCommand(t, dir, "--color", "no", "postprocess", "reduce", cut, final)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Version,File Name,Method Name,LOC,Buggy",
		"1.0,A.java,void f(),4,No",
		"1.2,B.java,int g(int),9,Yes",
	}, readLines(t, final))
}

// TestDedupOrdersReleasesNumerically checks that 1.10 sorts after 1.2.
func TestDedupOrdersReleasesNumerically(t *testing.T) {
	dir := t.TempDir()
	raw := writeDataset(t, dir)
	out := filepath.Join(dir, "out.csv")

	_, err := runCommand(t, dir, "--color", "no", "postprocess", "dedup", raw, out, "--cut", "1.9")
	require.NoError(t, err)
	for _, line := range readLines(t, out) {
		assert.NotContains(t, line, "1.10,")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "isw2")
}
