package contract

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/kuro1999/isw2-dataset/schema"
)

// Color variables for console output.
var (
	BuggyColor = color.New(color.FgRed, color.Bold) // BuggyColor marks defective methods.
	CleanColor = color.New(color.FgGreen)           // CleanColor marks clean methods.
	InfoColor  = color.New(color.FgCyan)            // InfoColor is for neutral status words.
)

// DefaultExcludes are the globs of non-production Java sources skipped when
// extracting per-release features.
var DefaultExcludes = []string{
	"**/src/test/java/**",
	"**/*{Test,IT}.java",
	"**/src/main/java/tests/**",
	"**/{target,build,generated-sources}/**",
	"**/{dto,model}/**",
	"**/{demo,sample,example}/**",
	"**/*{Demo,Sample,Example}.java",
	"**/{mock,stubs,test-data}/**",
	"**/*Mock.java",
	"**/*Stub.java",
	"**/*TestData.java",
	"**/benchmark/**",
	"**/*Benchmark.java",
}

// GetPlainLabel returns the dataset label of a buggy flag.
func GetPlainLabel(buggy bool) string {
	if buggy {
		return schema.BuggyYes
	}
	return schema.BuggyNo
}

// GetColorLabel returns a colored label for console output (table).
func GetColorLabel(buggy bool) string {
	text := GetPlainLabel(buggy)
	if buggy {
		return BuggyColor.Sprint(text)
	}
	return CleanColor.Sprint(text)
}

// ShouldIgnore returns true if the slash-separated relative path matches any
// of the exclude globs. Globs use doublestar syntax, so "**" crosses directories
// and "{a,b}" alternates. Invalid patterns never match.
func ShouldIgnore(relPath string, excludes []string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		if ok, err := doublestar.Match(ex, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

// ValidateExcludes reports the first malformed glob.
func ValidateExcludes(excludes []string) error {
	for _, ex := range excludes {
		if !doublestar.ValidatePattern(ex) {
			return fmt.Errorf("invalid exclude glob %q", ex)
		}
	}
	return nil
}

// IsJavaSource reports whether a path names a Java compilation unit.
func IsJavaSource(p string) bool {
	return path.Ext(p) == ".java"
}

// WriteFileAtomic writes data to a temporary file in the destination directory
// and renames it over dest, so readers never see a partial file.
func WriteFileAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// GetCacheDBFilePath returns the path to the SQLite DB file for fetch cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".isw2_cache.db"
	}
	return filepath.Join(homeDir, ".isw2_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history storage.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".isw2_runs.db"
	}
	return filepath.Join(homeDir, ".isw2_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(p string, maxWidth int) string {
	runes := []rune(p)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return p
}
