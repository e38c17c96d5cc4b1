package contract

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/kuro1999/isw2-dataset/schema"
)

// Default values for configuration.
const (
	DefaultJiraURL     = "https://issues.apache.org/jira"
	DefaultHTTPTimeout = 60 * time.Second
	DefaultRateLimit   = 5.0
	DefaultFetchTTL    = 7 * 24 * time.Hour
	DefaultLogLevel    = "info"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

var projectKeyRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Config holds the runtime configuration for a dataset build.
// This struct is the "final, validated" config.
type Config struct {
	Projects []schema.Project

	WorkDir           string
	CacheDir          string // Overrides <work-dir>/cache/<repo> when set
	Workers           int
	Excludes          []string
	NoDefaultExcludes bool
	SnapshotSource    schema.SnapshotSource

	JiraURL     string
	JiraUser    string
	JiraPass    string
	GitHubURL   string
	GitHubToken string
	HTTPTimeout time.Duration
	RateLimit   float64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	FetchTTL       time.Duration

	RunsBackend   schema.DatabaseBackend // Empty disables run history
	RunsDBConnect string                 // Please use env var as this is plaintext

	OutputFormat schema.OutputFormat
	LogLevel     string
	UseColors    bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Project selection (config file list or single-project flags) ---
	Projects   []schema.Project `mapstructure:"projects"`
	Owner      string           `mapstructure:"owner"`
	Repo       string           `mapstructure:"repo"`
	JiraKey    string           `mapstructure:"jira-key"`
	ReleaseCut string           `mapstructure:"release-cut"`

	// --- Fields from rootCmd.PersistentFlags() ---
	WorkDir           string  `mapstructure:"work-dir"`
	CacheDir          string  `mapstructure:"cache-dir"`
	Workers           int     `mapstructure:"workers"`
	Exclude           string  `mapstructure:"exclude"`
	NoDefaultExcludes bool    `mapstructure:"no-default-excludes"`
	SnapshotSource    string  `mapstructure:"snapshot-source"`
	JiraURL           string  `mapstructure:"jira-url"`
	GitHubURL         string  `mapstructure:"github-url"`
	HTTPTimeout       string  `mapstructure:"http-timeout"`
	RateLimit         float64 `mapstructure:"rate-limit"`
	CacheBackend      string  `mapstructure:"cache-backend"`
	CacheDBConnect    string  `mapstructure:"cache-db-connect"`
	FetchTTL          string  `mapstructure:"fetch-ttl"`
	RunsBackend       string  `mapstructure:"runs-backend"`
	RunsDBConnect     string  `mapstructure:"runs-db-connect"`
	OutputFormat      string  `mapstructure:"output-format"`
	LogLevel          string  `mapstructure:"log-level"`
	Color             string  `mapstructure:"color"`

	// --- Credentials, bound to plain environment variables ---
	JiraUser    string `mapstructure:"jira-user"`
	JiraPass    string `mapstructure:"jira-pass"`
	GitHubToken string `mapstructure:"github-token"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = append([]string(nil), c.Excludes...)
	}
	if c.Projects != nil {
		clone.Projects = make([]schema.Project, len(c.Projects))
		for i, p := range c.Projects {
			p.Excludes = append([]string(nil), p.Excludes...)
			clone.Projects[i] = p
		}
	}
	return &clone
}

// RepoDir returns where the working tree of a project is cloned.
func (c *Config) RepoDir(p schema.Project) string {
	return filepath.Join(c.WorkDir, p.Repo+"_repo")
}

// ProjectCacheDir returns the directory holding the cache and JSON artifacts of a project.
func (c *Config) ProjectCacheDir(p schema.Project) string {
	if c.CacheDir != "" {
		return c.CacheDir
	}
	return filepath.Join(c.WorkDir, "cache", p.Repo)
}

// ExcludesFor returns the effective exclude globs of a project.
func (c *Config) ExcludesFor(p schema.Project) []string {
	var out []string
	if !c.NoDefaultExcludes {
		out = append(out, DefaultExcludes...)
	}
	out = append(out, c.Excludes...)
	out = append(out, p.Excludes...)
	return out
}

// RequireProjects fails when no project was configured.
func (c *Config) RequireProjects() error {
	if len(c.Projects) == 0 {
		return errors.New("no project configured: set 'projects' in the config file or pass --owner, --repo and --jira-key")
	}
	return nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processProjects(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates fetch cache and run store backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Fetch Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Run Store Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs-db-connect: %w", err)
	}

	// Both stores create tables of their own; a shared SQLite file would mix them
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		runsDBPath := cfg.RunsDBConnect
		if runsDBPath == "" {
			runsDBPath = GetRunsDBFilePath()
		}
		if cacheDBPath == runsDBPath {
			return fmt.Errorf("cache and run storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-project fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.WorkDir = input.WorkDir
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	cfg.CacheDir = input.CacheDir
	cfg.NoDefaultExcludes = input.NoDefaultExcludes
	cfg.JiraUser = input.JiraUser
	cfg.JiraPass = input.JiraPass
	cfg.GitHubToken = input.GitHubToken
	cfg.GitHubURL = strings.TrimSpace(input.GitHubURL)

	cfg.JiraURL = strings.TrimRight(strings.TrimSpace(input.JiraURL), "/")
	if cfg.JiraURL == "" {
		cfg.JiraURL = DefaultJiraURL
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Snapshot Source and Output Format ---
	cfg.SnapshotSource = schema.SnapshotSource(strings.ToLower(input.SnapshotSource))
	if _, ok := schema.ValidSnapshotSources[cfg.SnapshotSource]; !ok {
		return fmt.Errorf("invalid snapshot source '%s'. must be forge, git", input.SnapshotSource)
	}
	cfg.OutputFormat = schema.OutputFormat(strings.ToLower(input.OutputFormat))
	if _, ok := schema.ValidOutputFormats[cfg.OutputFormat]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, parquet", input.OutputFormat)
	}

	// --- 3. HTTP Settings ---
	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.HTTPTimeout != "" {
		d, err := ParseDuration(input.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid --http-timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if input.RateLimit <= 0 {
		return fmt.Errorf("rate-limit must be greater than 0 (received %v)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit

	cfg.FetchTTL = DefaultFetchTTL
	if input.FetchTTL != "" {
		d, err := ParseDuration(input.FetchTTL)
		if err != nil {
			return fmt.Errorf("invalid --fetch-ttl: %w", err)
		}
		cfg.FetchTTL = d
	}

	// --- 4. Log Level ---
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	// --- 5. Excludes Processing ---
	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}
	return ValidateExcludes(cfg.Excludes)
}

// processProjects merges the config file project list with the single-project flags.
func processProjects(cfg *Config, input *ConfigRawInput) error {
	var projects []schema.Project
	if input.Owner != "" || input.Repo != "" || input.JiraKey != "" {
		projects = append(projects, schema.Project{
			Owner:      input.Owner,
			Repo:       input.Repo,
			JiraKey:    input.JiraKey,
			ReleaseCut: input.ReleaseCut,
		})
	} else {
		projects = append(projects, input.Projects...)
	}

	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		p := &projects[i]
		p.Owner = strings.TrimSpace(p.Owner)
		p.Repo = strings.TrimSpace(p.Repo)
		p.JiraKey = strings.ToUpper(strings.TrimSpace(p.JiraKey))
		p.ReleaseCut = strings.TrimSpace(p.ReleaseCut)
		if p.Owner == "" || p.Repo == "" {
			return fmt.Errorf("project %d: owner and repo are required", i+1)
		}
		if !projectKeyRe.MatchString(p.JiraKey) {
			return fmt.Errorf("project %s/%s: invalid jira key %q", p.Owner, p.Repo, p.JiraKey)
		}
		if err := ValidateExcludes(p.Excludes); err != nil {
			return fmt.Errorf("project %s: %w", p.JiraKey, err)
		}
		if _, dup := seen[p.JiraKey]; dup {
			return fmt.Errorf("project %s configured twice", p.JiraKey)
		}
		seen[p.JiraKey] = struct{}{}
	}
	cfg.Projects = projects
	return nil
}
