package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnore_DefaultExcludes(t *testing.T) {
	tests := []struct {
		path    string
		ignored bool
	}{
		{"core/src/main/java/org/apache/Foo.java", false},
		{"core/src/test/java/org/apache/Foo.java", true},
		{"src/test/java/Foo.java", true},
		{"core/src/main/java/org/apache/FooTest.java", true},
		{"core/src/main/java/org/apache/FooIT.java", true},
		{"src/main/java/tests/Helper.java", true},
		{"target/generated-sources/Foo.java", true},
		{"core/build/Foo.java", true},
		{"api/src/main/java/org/dto/Payload.java", true},
		{"api/src/main/java/org/model/Entity.java", true},
		{"examples/src/main/java/demo/Main.java", true},
		{"src/main/java/org/FooDemo.java", true},
		{"src/main/java/org/FooSample.java", true},
		{"src/main/java/org/mock/Thing.java", true},
		{"src/main/java/org/FooMock.java", true},
		{"src/main/java/org/FooStub.java", true},
		{"src/main/java/org/FooTestData.java", true},
		{"perf/benchmark/Run.java", true},
		{"src/main/java/org/SortBenchmark.java", true},
		{"src/main/java/org/Modeling.java", false},
		{"src/main/java/org/Testable.java", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignored, ShouldIgnore(tt.path, DefaultExcludes))
		})
	}
}

func TestShouldIgnore_CustomAndInvalid(t *testing.T) {
	assert.True(t, ShouldIgnore("a/legacy/B.java", []string{"**/legacy/**"}))
	assert.False(t, ShouldIgnore("a/B.java", []string{"", "   "}))
	assert.False(t, ShouldIgnore("a/B.java", []string{"[unclosed"}))
	assert.True(t, ShouldIgnore(filepath.Join("a", "legacy", "B.java"), []string{"**/legacy/**"}))
}

func TestValidateExcludes(t *testing.T) {
	assert.NoError(t, ValidateExcludes(DefaultExcludes))
	assert.Error(t, ValidateExcludes([]string{"ok/**", "[bad"}))
}

func TestIsJavaSource(t *testing.T) {
	assert.True(t, IsJavaSource("a/B.java"))
	assert.False(t, IsJavaSource("a/B.java.orig"))
	assert.False(t, IsJavaSource("a/B.kt"))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Yes", GetPlainLabel(true))
	assert.Equal(t, "No", GetPlainLabel(false))
	assert.Contains(t, GetColorLabel(true), "Yes")
	assert.Contains(t, GetColorLabel(false), "No")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "nested", "out.json")

	require.NoError(t, WriteFileAtomic(dest, []byte(`{"a":1}`)))
	require.NoError(t, WriteFileAtomic(dest, []byte(`{"a":2}`)))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", TruncatePath("short", 10))
	assert.Equal(t, "...ef", TruncatePath("abcdef", 5))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"90s", 90 * time.Second, false},
		{"7 days", 7 * 24 * time.Hour, false},
		{"1 day", 24 * time.Hour, false},
		{"2 weeks", 14 * 24 * time.Hour, false},
		{"3hours", 3 * time.Hour, false},
		{"0s", 0, true},
		{"0 days", 0, true},
		{"-5s", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
