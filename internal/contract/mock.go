package contract

import (
	"context"

	"github.com/kuro1999/isw2-dataset/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient interface.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// Clone implements the GitClient interface.
func (m *MockGitClient) Clone(ctx context.Context, url, dest string) error {
	ret := m.Called(ctx, url, dest)
	return ret.Error(0)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// ListTags implements the GitClient interface.
func (m *MockGitClient) ListTags(ctx context.Context, repoPath string) ([]schema.ReleaseTag, error) {
	ret := m.Called(ctx, repoPath)
	tags, _ := ret.Get(0).([]schema.ReleaseTag)
	return tags, ret.Error(1)
}

// ListCommits implements the GitClient interface.
func (m *MockGitClient) ListCommits(ctx context.Context, repoPath, from, to string) ([]schema.Commit, error) {
	ret := m.Called(ctx, repoPath, from, to)
	commits, _ := ret.Get(0).([]schema.Commit)
	return commits, ret.Error(1)
}

// ListChanges implements the GitClient interface.
func (m *MockGitClient) ListChanges(ctx context.Context, repoPath, parent, commit string) ([]schema.FileChange, error) {
	ret := m.Called(ctx, repoPath, parent, commit)
	changes, _ := ret.Get(0).([]schema.FileChange)
	return changes, ret.Error(1)
}

// ReadBlob implements the GitClient interface.
func (m *MockGitClient) ReadBlob(ctx context.Context, repoPath, id string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, id)
	content, _ := ret.Get(0).([]byte)
	return content, ret.Error(1)
}

// Archive implements the GitClient interface.
func (m *MockGitClient) Archive(ctx context.Context, repoPath, ref, dest string) error {
	ret := m.Called(ctx, repoPath, ref, dest)
	return ret.Error(0)
}

// MockIssueTracker is a mock type for the IssueTracker interface.
type MockIssueTracker struct {
	mock.Mock
}

var _ IssueTracker = &MockIssueTracker{} // Compile-time check

// ListTickets implements the IssueTracker interface.
func (m *MockIssueTracker) ListTickets(ctx context.Context, projectKey string) ([]schema.Ticket, error) {
	ret := m.Called(ctx, projectKey)
	tickets, _ := ret.Get(0).([]schema.Ticket)
	return tickets, ret.Error(1)
}

// ListVersions implements the IssueTracker interface.
func (m *MockIssueTracker) ListVersions(ctx context.Context, projectKey string) ([]schema.Version, error) {
	ret := m.Called(ctx, projectKey)
	versions, _ := ret.Get(0).([]schema.Version)
	return versions, ret.Error(1)
}

// MockForge is a mock type for the Forge interface.
type MockForge struct {
	mock.Mock
}

var _ Forge = &MockForge{} // Compile-time check

// ListTags implements the Forge interface.
func (m *MockForge) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	ret := m.Called(ctx, owner, repo)
	tags, _ := ret.Get(0).([]string)
	return tags, ret.Error(1)
}

// DownloadSnapshot implements the Forge interface.
func (m *MockForge) DownloadSnapshot(ctx context.Context, owner, repo, tag, destDir string) (string, error) {
	ret := m.Called(ctx, owner, repo, tag, destDir)
	return ret.String(0), ret.Error(1)
}
