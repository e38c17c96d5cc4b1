// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/kuro1999/isw2-dataset/schema"
)

// GitClient defines the version-control operations the dataset builder needs.
// This allows the labelling engine to be tested without a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// Clone clones a remote repository with full history and tags into dest.
	Clone(ctx context.Context, url, dest string) error

	// --- Reference Resolution ---

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ListTags returns every tag of the repository peeled to its commit.
	ListTags(ctx context.Context, repoPath string) ([]schema.ReleaseTag, error)

	// --- History ---

	// ListCommits returns the commits in (from, to]. An empty from means every
	// commit reachable from to; an empty to means every ref.
	ListCommits(ctx context.Context, repoPath, from, to string) ([]schema.Commit, error)

	// ListChanges returns the tree diff between parent and commit with rename detection.
	ListChanges(ctx context.Context, repoPath, parent, commit string) ([]schema.FileChange, error)

	// --- Content ---

	// ReadBlob returns the raw bytes of a blob. The zero id yields no content.
	ReadBlob(ctx context.Context, repoPath, id string) ([]byte, error)

	// Archive writes a zip archive of ref to dest.
	Archive(ctx context.Context, repoPath, ref, dest string) error
}

// IssueTracker lists the tickets and released versions of a tracker project.
type IssueTracker interface {
	ListTickets(ctx context.Context, projectKey string) ([]schema.Ticket, error)
	ListVersions(ctx context.Context, projectKey string) ([]schema.Version, error)
}

// Forge lists release tags and materializes source snapshots of a hosted repository.
type Forge interface {
	ListTags(ctx context.Context, owner, repo string) ([]string, error)

	// DownloadSnapshot extracts the source tree of tag under destDir and
	// returns the directory holding it.
	DownloadSnapshot(ctx context.Context, owner, repo, tag, destDir string) (string, error)
}

// MethodParser indexes the methods of one Java compilation unit.
type MethodParser interface {
	Index(src []byte) ([]schema.MethodDecl, error)
	Features(src []byte) ([]schema.MethodFeatures, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetFetchStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for tracking dataset builds.
type RunStore interface {
	// BeginRun creates a new run for a project and returns its unique ID
	BeginRun(project string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totals schema.RunTotals) error

	// RecordRelease stores the per-release row counts of a run
	RecordRelease(runID int64, stat schema.ReleaseStat) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllReleaseStats returns every recorded per-release stat
	GetAllReleaseStats() ([]schema.ReleaseStatRecord, error)

	// Close closes the underlying connection
	Close() error
}
