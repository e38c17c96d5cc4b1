// Package core builds method-level defect datasets: it links fix commits to
// bug tickets, aggregates the history of every changed method and labels the
// methods of each release.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/internal/forge"
	"github.com/kuro1999/isw2-dataset/internal/javaparse"
	"github.com/kuro1999/isw2-dataset/internal/jira"
	"github.com/kuro1999/isw2-dataset/internal/outwriter"
	"github.com/kuro1999/isw2-dataset/schema"
)

// ExecutorFunc defines the function signature for executing the build commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewDeps wires the production collaborators for cfg.
func NewDeps(cfg *contract.Config, mgr contract.CacheManager) (Deps, error) {
	gh, err := forge.NewClient(cfg.GitHubURL, cfg.GitHubToken, cfg.HTTPTimeout, cfg.RateLimit)
	if err != nil {
		return Deps{}, err
	}
	return Deps{
		Git:     contract.NewLocalGitClient(),
		Tracker: jira.NewClient(cfg.JiraURL, cfg.JiraUser, cfg.JiraPass, cfg.HTTPTimeout, cfg.RateLimit),
		Forge:   gh,
		Parser:  javaparse.NewParser(),
		Cache:   mgr,
		Out:     os.Stdout,
	}, nil
}

// ExecuteBuild builds the dataset of every configured project.
// It serves as the main entry point for the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if err := cfg.RequireProjects(); err != nil {
		return err
	}
	deps, err := NewDeps(cfg, mgr)
	if err != nil {
		return err
	}
	return NewPipeline(cfg, deps).Run(ctx)
}

// ExecuteReleases prints the releases selected for every configured project
// without building datasets. With jsonFile set the selections are written as JSON.
func ExecuteReleases(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, jsonFile string) error {
	if err := cfg.RequireProjects(); err != nil {
		return err
	}
	deps, err := NewDeps(cfg, mgr)
	if err != nil {
		return err
	}
	return runReleases(ctx, cfg, deps, jsonFile)
}

func runReleases(ctx context.Context, cfg *contract.Config, deps Deps, jsonFile string) error {
	ow := outwriter.NewOutWriter(deps.Out)
	var errs []error
	var selections []schema.ReleaseSelection
	for _, project := range cfg.Projects {
		sel, err := SelectProjectReleases(ctx, cfg, deps, project)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", project.JiraKey, err))
			continue
		}
		selections = append(selections, sel)
		if jsonFile == "" {
			if err := ow.WriteReleases(sel); err != nil {
				return err
			}
		}
	}
	if jsonFile != "" && len(selections) > 0 {
		if err := outwriter.WriteReleasesJSON(selections, jsonFile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SelectProjectReleases runs release selection for one project. The working
// tree is only acquired when tags come from git.
func SelectProjectReleases(ctx context.Context, cfg *contract.Config, deps Deps, project schema.Project) (schema.ReleaseSelection, error) {
	b := NewProjectBuilder(cfg, deps, project)
	if cfg.SnapshotSource == schema.GitSnapshot {
		b.AcquireRepo(ctx)
	}
	return b.SelectReleases(ctx).Selection()
}

// ExecuteDedup deduplicates a dataset CSV and, when cut is set, drops the
// rows of releases after cut.
func ExecuteDedup(input, output, cut string) error {
	var (
		stats outwriter.ProcessStats
		err   error
	)
	if cut != "" {
		stats, err = outwriter.FilterUpTo(input, output, cut, CompareVersions)
	} else {
		stats, err = outwriter.Deduplicate(input, output)
	}
	if err != nil {
		return err
	}
	contract.Logger.WithField("file", output).Infof("Kept %d of %d rows", stats.Written, stats.Read)
	return nil
}

// ExecuteReduce collapses rows that differ only by release into the oldest one.
func ExecuteReduce(input, output string) error {
	stats, err := outwriter.Reduce(input, output, CompareVersions)
	if err != nil {
		return err
	}
	contract.Logger.WithField("file", output).Infof("Kept %d of %d rows", stats.Written, stats.Read)
	return nil
}

// ExecuteDatasetExport converts a dataset CSV into Parquet.
func ExecuteDatasetExport(input, output string) error {
	if err := ConvertDataset(input, output); err != nil {
		return err
	}
	contract.Logger.WithField("file", output).Info("Wrote Parquet dataset")
	return nil
}
