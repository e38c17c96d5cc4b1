package outwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compareDigits orders the single-digit versions used in these tests.
func compareDigits(a, b string) int {
	return strings.Compare(a, b)
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestDeduplicate(t *testing.T) {
	in := writeCSV(t,
		"Version,Method,Buggy",
		"1,a,No",
		"1,b,Yes",
		"1, a ,No",
		"2,a,No",
	)
	out := filepath.Join(t.TempDir(), "out.csv")

	stats, err := Deduplicate(in, out)
	require.NoError(t, err)
	assert.Equal(t, ProcessStats{Read: 4, Written: 3}, stats)
	assert.Equal(t, 1, stats.Removed())
	assert.Equal(t, []string{"Version,Method,Buggy", "1,a,No", "1,b,Yes", "2,a,No"}, readLines(t, out))
}

func TestFilterUpTo(t *testing.T) {
	in := writeCSV(t,
		"Version,Method,Buggy",
		"1,a,No",
		"3,a,No",
		"2,b,Yes",
		"2,b,Yes",
	)
	out := filepath.Join(t.TempDir(), "out.csv")

	stats, err := FilterUpTo(in, out, "2", compareDigits)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Written)
	assert.Equal(t, []string{"Version,Method,Buggy", "1,a,No", "2,b,Yes"}, readLines(t, out))
}

func TestReduce(t *testing.T) {
	in := writeCSV(t,
		"Method,Version,LOC,Buggy",
		"a,3,4,No",
		"b,2,7,Yes",
		"a,1,4,No",
		"a,2,5,No",
		"b,1,7,Yes",
	)
	out := filepath.Join(t.TempDir(), "out.csv")

	stats, err := Reduce(in, out, compareDigits)
	require.NoError(t, err)
	assert.Equal(t, ProcessStats{Read: 5, Written: 3}, stats)
	assert.Equal(t, []string{
		"Method,Version,LOC,Buggy",
		"a,1,4,No",
		"b,1,7,Yes",
		"a,2,5,No",
	}, readLines(t, out), "oldest release wins, first-seen order")
}

func TestPostProcessErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	noVersion := writeCSV(t, "Method,Buggy", "a,No")

	_, err := Deduplicate(noVersion, out)
	assert.ErrorContains(t, err, `missing "Version" column`)
	_, err = Reduce(noVersion, out, compareDigits)
	assert.ErrorContains(t, err, `missing "Version" column`)
	_, err = Deduplicate(filepath.Join(t.TempDir(), "missing.csv"), out)
	assert.Error(t, err)
}

func TestCopyDataset(t *testing.T) {
	in := writeCSV(t, "Version,Method", "1,a")
	out := filepath.Join(t.TempDir(), "copy.csv")
	require.NoError(t, CopyDataset(in, out))
	assert.Equal(t, readLines(t, in), readLines(t, out))
	assert.Error(t, CopyDataset(filepath.Join(t.TempDir(), "missing.csv"), out))
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, recordKey([]string{"1", "a"}, 0), recordKey([]string{"2", "a"}, 0))
	assert.NotEqual(t, recordKey([]string{"a,b", "c"}, -1), recordKey([]string{"a", "b,c"}, -1))
}
