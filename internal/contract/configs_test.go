package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kuro1999/isw2-dataset/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Owner:          "apache",
		Repo:           "bookkeeper",
		JiraKey:        "bookkeeper",
		Workers:        4,
		SnapshotSource: "forge",
		RateLimit:      5,
		CacheBackend:   "sqlite",
		OutputFormat:   "csv",
		LogLevel:       "info",
		Color:          "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "invalid snapshot source", mutate: func(in *ConfigRawInput) { in.SnapshotSource = "svn" }, expectError: true},
		{name: "invalid output format", mutate: func(in *ConfigRawInput) { in.OutputFormat = "xml" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "invalid log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "invalid rate limit", mutate: func(in *ConfigRawInput) { in.RateLimit = 0 }, expectError: true},
		{name: "invalid http timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "later" }, expectError: true},
		{name: "invalid fetch ttl", mutate: func(in *ConfigRawInput) { in.FetchTTL = "0 days" }, expectError: true},
		{name: "invalid exclude glob", mutate: func(in *ConfigRawInput) { in.Exclude = "**/ok/**,[bad" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, expectError: true},
		{name: "missing repo", mutate: func(in *ConfigRawInput) { in.Repo = "" }, expectError: true},
		{name: "bad jira key", mutate: func(in *ConfigRawInput) { in.JiraKey = "BK-1" }, expectError: true},
		{
			name: "runs store on a distinct sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.RunsBackend = "sqlite"
				in.RunsDBConnect = filepath.Join(t.TempDir(), "runs.db")
			},
		},
		{
			name: "runs store sharing the cache sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.RunsBackend = "sqlite"
				in.CacheDBConnect = "/tmp/same.db"
				in.RunsDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Exclude = " **/legacy/** , ,**/*Gen.java"
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, DefaultJiraURL, cfg.JiraURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultFetchTTL, cfg.FetchTTL)
	assert.Equal(t, schema.ForgeSnapshot, cfg.SnapshotSource)
	assert.Equal(t, schema.CSVOut, cfg.OutputFormat)
	assert.Equal(t, schema.DatabaseBackend(""), cfg.RunsBackend)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, []string{"**/legacy/**", "**/*Gen.java"}, cfg.Excludes)

	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, schema.Project{Owner: "apache", Repo: "bookkeeper", JiraKey: "BOOKKEEPER"}, cfg.Projects[0])
}

func TestProcessAndValidate_ProjectList(t *testing.T) {
	input := validInput()
	input.Owner, input.Repo, input.JiraKey = "", "", ""
	input.Projects = []schema.Project{
		{Owner: "apache", Repo: "bookkeeper", JiraKey: "BOOKKEEPER", ReleaseCut: "4.2.0"},
		{Owner: "apache", Repo: "openjpa", JiraKey: "openjpa", Excludes: []string{"**/jdbc/**"}},
	}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, "OPENJPA", cfg.Projects[1].JiraKey)
	assert.NoError(t, cfg.RequireProjects())

	input.Projects = append(input.Projects, schema.Project{Owner: "x", Repo: "y", JiraKey: "OpenJPA"})
	assert.Error(t, ProcessAndValidate(&Config{}, input), "duplicate keys are rejected")

	input.Projects = nil
	empty := &Config{}
	require.NoError(t, ProcessAndValidate(empty, input))
	assert.Error(t, empty.RequireProjects())
}

func TestConfigPaths(t *testing.T) {
	p := schema.Project{Owner: "apache", Repo: "openjpa", JiraKey: "OPENJPA", Excludes: []string{"**/jdbc/**"}}
	cfg := &Config{WorkDir: "/work", Excludes: []string{"**/legacy/**"}}

	assert.Equal(t, filepath.Join("/work", "openjpa_repo"), cfg.RepoDir(p))
	assert.Equal(t, filepath.Join("/work", "cache", "openjpa"), cfg.ProjectCacheDir(p))

	excludes := cfg.ExcludesFor(p)
	assert.Equal(t, len(DefaultExcludes)+2, len(excludes))
	assert.Equal(t, "**/jdbc/**", excludes[len(excludes)-1])

	cfg.CacheDir = "/cache"
	cfg.NoDefaultExcludes = true
	assert.Equal(t, "/cache", cfg.ProjectCacheDir(p))
	assert.Equal(t, []string{"**/legacy/**", "**/jdbc/**"}, cfg.ExcludesFor(p))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Excludes:    []string{"a"},
		Projects:    []schema.Project{{Repo: "r", Excludes: []string{"x"}}},
		HTTPTimeout: time.Second,
	}
	clone := cfg.Clone()
	clone.Excludes[0] = "b"
	clone.Projects[0].Excludes[0] = "y"
	assert.Equal(t, "a", cfg.Excludes[0])
	assert.Equal(t, "x", cfg.Projects[0].Excludes[0])
	assert.Equal(t, time.Second, clone.HTTPTimeout)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@localhost/db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}
