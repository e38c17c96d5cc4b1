package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kuro1999/isw2-dataset/schema"
)

// Field and record separators used in custom git log formats.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git %s failed in %q: %s", firstArg(args), repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url, dest string) error {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return err
	}
	_, err := c.Run(ctx, parent, "clone", "--quiet", url, dest)
	return err
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ListTags implements the GitClient interface.
// Annotated tags report the peeled commit, lightweight tags their own object.
func (c *LocalGitClient) ListTags(ctx context.Context, repoPath string) ([]schema.ReleaseTag, error) {
	out, err := c.Run(ctx, repoPath,
		"for-each-ref",
		"--format=%(refname:strip=2)%09%(objectname)%09%(*objectname)",
		"refs/tags",
	)
	if err != nil {
		return nil, err
	}
	return parseTagRefs(out), nil
}

func parseTagRefs(out []byte) []schema.ReleaseTag {
	tags := []schema.ReleaseTag{}
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		commit := parts[1]
		if len(parts) > 2 && parts[2] != "" {
			commit = parts[2]
		}
		tags = append(tags, schema.ReleaseTag{Name: parts[0], Commit: commit})
	}
	return tags
}

// ListCommits implements the GitClient interface.
func (c *LocalGitClient) ListCommits(ctx context.Context, repoPath, from, to string) ([]schema.Commit, error) {
	args := []string{
		"log",
		"--format=" + strings.Join([]string{"%H", "%P", "%an", "%at", "%B"}, fieldSep) + recordSep,
	}
	switch {
	case to == "":
		args = append(args, "--all")
	case from == "":
		args = append(args, to)
	default:
		args = append(args, from+".."+to)
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitLog(out)
}

func parseCommitLog(out []byte) ([]schema.Commit, error) {
	commits := []schema.Commit{}
	for record := range strings.SplitSeq(string(out), recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 5)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed commit record %q", record)
		}
		secs, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed author time for %s: %w", fields[0], err)
		}
		commits = append(commits, schema.Commit{
			ID:         fields[0],
			Parents:    strings.Fields(fields[1]),
			Author:     fields[2],
			AuthorTime: time.Unix(secs, 0).UTC(),
			Message:    strings.TrimRight(fields[4], "\n"),
		})
	}
	return commits, nil
}

// ListChanges implements the GitClient interface.
// An empty parent diffs the commit against the empty tree.
func (c *LocalGitClient) ListChanges(ctx context.Context, repoPath, parent, commit string) ([]schema.FileChange, error) {
	args := []string{"diff-tree", "-r", "-M", "-z", "--no-abbrev", "--no-commit-id"}
	if parent == "" {
		args = append(args, "--root", commit)
	} else {
		args = append(args, parent, commit)
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseRawDiff(out)
}

// parseRawDiff reads NUL-separated raw diff output:
// ":oldmode newmode oldid newid status\0path\0[newpath\0]".
func parseRawDiff(out []byte) ([]schema.FileChange, error) {
	fields := bytes.Split(out, []byte{0})
	changes := []schema.FileChange{}
	for i := 0; i < len(fields); i++ {
		header := strings.TrimSpace(string(fields[i]))
		if header == "" {
			continue
		}
		if !strings.HasPrefix(header, ":") {
			return nil, fmt.Errorf("unexpected diff-tree field %q", header)
		}
		meta := strings.Fields(header[1:])
		if len(meta) != 5 || meta[4] == "" {
			return nil, fmt.Errorf("malformed diff-tree header %q", header)
		}
		change := schema.FileChange{
			Type:  schema.ChangeType(meta[4][:1]),
			OldID: meta[2],
			NewID: meta[3],
		}
		if i+1 >= len(fields) {
			return nil, fmt.Errorf("missing path after %q", header)
		}
		i++
		change.OldPath = string(fields[i])
		change.NewPath = change.OldPath
		if change.Type == schema.ChangeRename || change.Type == schema.ChangeCopy {
			if i+1 >= len(fields) {
				return nil, fmt.Errorf("missing destination path after %q", header)
			}
			i++
			change.NewPath = string(fields[i])
		}
		switch change.Type {
		case schema.ChangeAdd:
			change.OldPath = ""
		case schema.ChangeDelete:
			change.NewPath = ""
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// ReadBlob implements the GitClient interface.
func (c *LocalGitClient) ReadBlob(ctx context.Context, repoPath, id string) ([]byte, error) {
	if id == "" || id == schema.ZeroID {
		return nil, nil
	}
	return c.Run(ctx, repoPath, "cat-file", "blob", id)
}

// Archive implements the GitClient interface.
func (c *LocalGitClient) Archive(ctx context.Context, repoPath, ref, dest string) error {
	_, err := c.Run(ctx, repoPath, "archive", "--format=zip", "--prefix="+snapshotPrefix(ref)+"/", "-o", dest, ref)
	return err
}

// snapshotPrefix mirrors the single top-level directory of forge zipballs.
func snapshotPrefix(ref string) string {
	return "snapshot-" + strings.NewReplacer("/", "-", " ", "-").Replace(ref)
}
