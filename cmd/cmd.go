// Package cmd defines the command-line interface for isw2.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(postprocessCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the postprocess subcommands to the parent postprocess command
	postprocessCmd.AddCommand(dedupCmd)
	postprocessCmd.AddCommand(reduceCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("owner", "", "GitHub owner of the single project to build")
	rootCmd.PersistentFlags().String("repo", "", "GitHub repository of the single project to build")
	rootCmd.PersistentFlags().String("jira-key", "", "Jira project key of the single project to build")
	rootCmd.PersistentFlags().String("release-cut", "", "Drop dataset rows of releases after this version")
	rootCmd.PersistentFlags().String("work-dir", ".", "Directory for clones and datasets")
	rootCmd.PersistentFlags().String("cache-dir", "", "Directory for JSON artifacts and the buggy info cache (default <work-dir>/cache/<repo>)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent parse workers")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of extra glob patterns to ignore")
	rootCmd.PersistentFlags().Bool("no-default-excludes", false, "Do not apply the built-in test/generated/sample excludes")
	rootCmd.PersistentFlags().String("snapshot-source", string(schema.ForgeSnapshot), "Release source trees: forge (GitHub zipball) or git (local git archive)")
	rootCmd.PersistentFlags().String("jira-url", contract.DefaultJiraURL, "Jira base URL")
	rootCmd.PersistentFlags().String("github-url", "", "GitHub API base URL override (GitHub Enterprise or tests)")
	rootCmd.PersistentFlags().String("http-timeout", contract.DefaultHTTPTimeout.String(), "Timeout of every HTTP request")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Requests per second sent to Jira and GitHub")
	rootCmd.PersistentFlags().String("fetch-ttl", contract.DefaultFetchTTL.String(), "How long cached tickets, versions and tags stay fresh")
	rootCmd.PersistentFlags().String("output-format", string(schema.CSVOut), "Final dataset format: csv or parquet (parquet also keeps the CSV)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Fetch cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run history backend: sqlite or mysql or postgresql or none (empty disables)")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of releasesCmd to Viper
	releasesCmd.Flags().String("json-file", "", "Write the selected releases as JSON to this file instead of printing tables")
	if err := viper.BindPFlags(releasesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding releases flags", err)
	}

	// Bind all flags of dedupCmd to Viper
	dedupCmd.Flags().String("cut", "", "Also drop rows of releases after this version")
	if err := viper.BindPFlags(dedupCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dedup flags", err)
	}

	// Bind all flags of runsExportCmd to Viper
	runsExportCmd.Flags().String("output-file", "", "Prefix of the exported Parquet files")
	if err := viper.BindPFlags(runsExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs export flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
