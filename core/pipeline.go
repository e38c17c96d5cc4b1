package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/internal/forge"
	"github.com/kuro1999/isw2-dataset/internal/outwriter"
	"github.com/kuro1999/isw2-dataset/internal/parquet"
	"github.com/kuro1999/isw2-dataset/schema"
)

// Deps bundles the collaborators of a dataset build.
type Deps struct {
	Git     contract.GitClient
	Tracker contract.IssueTracker
	Forge   contract.Forge
	Parser  contract.MethodParser
	Cache   contract.CacheManager
	Out     io.Writer
}

func (d Deps) fetchStore() contract.CacheStore {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.GetFetchStore()
}

func (d Deps) runStore() contract.RunStore {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.GetRunStore()
}

// Pipeline builds the dataset of every configured project in order.
type Pipeline struct {
	cfg  *contract.Config
	deps Deps
}

// NewPipeline creates a pipeline over the configured projects.
func NewPipeline(cfg *contract.Config, deps Deps) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps}
}

// Run builds every project. A failed project is logged and the run moves on;
// the joined error reports every failure.
func (p *Pipeline) Run(ctx context.Context) error {
	var errs []error
	ow := outwriter.NewOutWriter(p.deps.Out)
	for _, project := range p.cfg.Projects {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		summary, err := p.BuildProject(ctx, project)
		if err != nil {
			contract.ProjectLogger(project.JiraKey).WithError(err).Error("Project build failed")
			errs = append(errs, fmt.Errorf("project %s: %w", project.JiraKey, err))
			continue
		}
		if err := ow.WriteBuildSummary(summary); err != nil {
			contract.LogWarn("Failed to print build summary", err)
		}
	}
	return errors.Join(errs...)
}

// BuildProject runs the whole pipeline for one project and records it in the
// run store when one is configured.
func (p *Pipeline) BuildProject(ctx context.Context, project schema.Project) (schema.BuildSummary, error) {
	start := time.Now()
	log := contract.ProjectLogger(project.JiraKey)

	var runID int64
	runStore := p.deps.runStore()
	if runStore != nil {
		var err error
		runID, err = runStore.BeginRun(project.JiraKey, start, p.runParams(project))
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	summary, err := NewProjectBuilder(p.cfg, p.deps, project).
		AcquireRepo(ctx).
		SelectReleases(ctx).
		LabelMethods(ctx).
		WriteReleases(ctx).
		PostProcess().
		ExportParquet().
		Build()
	summary.Duration = time.Since(start)

	if runStore != nil && runID > 0 {
		if endErr := runStore.EndRun(runID, time.Now(), summary.Totals()); endErr != nil {
			contract.LogWarn("Failed to finalize run tracking", endErr)
		}
	}
	if err != nil {
		return summary, err
	}
	log.WithField("duration", summary.Duration.Round(time.Millisecond)).Info("Project done")
	return summary, nil
}

func (p *Pipeline) runParams(project schema.Project) map[string]any {
	return map[string]any{
		"owner":           project.Owner,
		"repo":            project.Repo,
		"release_cut":     project.ReleaseCut,
		"workers":         p.cfg.Workers,
		"snapshot_source": string(p.cfg.SnapshotSource),
		"excludes":        p.cfg.ExcludesFor(project),
	}
}

// ProjectBuilder carries one project through the build steps. Each step is a
// no-op once an earlier step has failed.
type ProjectBuilder struct {
	cfg     *contract.Config
	deps    Deps
	project schema.Project
	log     *logrus.Entry

	repoDir  string
	cacheDir string

	selection schema.ReleaseSelection
	info      *schema.BuggyInfo
	summary   schema.BuildSummary
	err       error
}

// NewProjectBuilder is the starting point for building a project dataset.
func NewProjectBuilder(cfg *contract.Config, deps Deps, project schema.Project) *ProjectBuilder {
	return &ProjectBuilder{
		cfg:      cfg,
		deps:     deps,
		project:  project,
		log:      contract.ProjectLogger(project.JiraKey),
		repoDir:  cfg.RepoDir(project),
		cacheDir: cfg.ProjectCacheDir(project),
		summary: schema.BuildSummary{
			Project: project.JiraKey,
			Repo:    project.Repo,
		},
	}
}

// AcquireRepo clones the project repository unless a working tree is already present.
func (b *ProjectBuilder) AcquireRepo(ctx context.Context) *ProjectBuilder {
	if b.err != nil {
		return b
	}
	if err := os.MkdirAll(b.cacheDir, 0o755); err != nil {
		b.err = fmt.Errorf("creating cache dir: %w", err)
		return b
	}
	if _, err := os.Stat(b.repoDir); err == nil {
		b.log.WithField("dir", b.repoDir).Debug("Reusing working tree")
		return b
	}

	url := fmt.Sprintf("https://github.com/%s/%s.git", b.project.Owner, b.project.Repo)
	b.log.WithField("url", url).Info("Cloning repository")
	if err := b.deps.Git.Clone(ctx, url, b.repoDir); err != nil {
		b.err = fmt.Errorf("cloning %s: %w", url, err)
	}
	return b
}

// SelectReleases intersects tracker versions with repository tags and writes
// the JSON artifacts of both lists and their intersection.
func (b *ProjectBuilder) SelectReleases(ctx context.Context) *ProjectBuilder {
	if b.err != nil {
		return b
	}
	store := b.deps.fetchStore()
	key := b.project.JiraKey

	versions, err := cachedFetch(store, b.cfg.FetchTTL, versionsKind, key, func() ([]schema.Version, error) {
		return b.deps.Tracker.ListVersions(ctx, key)
	})
	if err != nil {
		b.err = fmt.Errorf("fetching tracker versions: %w", err)
		return b
	}

	tags, err := b.listTags(ctx, store)
	if err != nil {
		b.err = fmt.Errorf("fetching tags: %w", err)
		return b
	}

	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = v.Name
	}
	b.selection = SelectReleases(key, names, tags)
	if b.selection.FallbackToHead {
		b.log.Warn("No tag matches a tracker version, using the working tree as the only release")
	}
	b.log.WithFields(logrus.Fields{"versions": len(versions), "tags": len(tags)}).
		Infof("%d releases selected", len(b.selection.Releases))

	artifacts := []struct {
		suffix string
		data   any
	}{
		{"_jira_versions.json", versions},
		{"_git_tags.json", tags},
		{"_releases_intersection.json", b.selection},
	}
	for _, a := range artifacts {
		path := filepath.Join(b.cacheDir, b.project.Repo+a.suffix)
		if err := writeJSONArtifact(path, a.data); err != nil {
			contract.LogWarn("Failed to write "+filepath.Base(path), err)
		}
	}
	return b
}

// listTags reads the release tags from the forge, or from the local clone
// when snapshots come from git.
func (b *ProjectBuilder) listTags(ctx context.Context, store contract.CacheStore) ([]string, error) {
	if b.cfg.SnapshotSource == schema.GitSnapshot {
		local, err := b.deps.Git.ListTags(ctx, b.repoDir)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(local))
		for i, t := range local {
			names[i] = t.Name
		}
		return names, nil
	}
	project := b.project.Owner + "/" + b.project.Repo
	return cachedFetch(store, b.cfg.FetchTTL, tagsKind, project, func() ([]string, error) {
		return b.deps.Forge.ListTags(ctx, b.project.Owner, b.project.Repo)
	})
}

// LabelMethods fetches the tracker tickets and computes the buggy labels and
// history metrics, served from the BuggyInfo cache file when present.
func (b *ProjectBuilder) LabelMethods(ctx context.Context) *ProjectBuilder {
	if b.err != nil {
		return b
	}
	key := b.project.JiraKey
	tickets, err := cachedFetch(b.deps.fetchStore(), b.cfg.FetchTTL, ticketsKind, key, func() ([]schema.Ticket, error) {
		return b.deps.Tracker.ListTickets(ctx, key)
	})
	if err != nil {
		b.err = fmt.Errorf("fetching tickets: %w", err)
		return b
	}

	x := NewExtractor(b.deps.Git, b.deps.Parser, b.cfg.Workers, b.log)
	info, stats, fromCache, err := cachedExtract(ctx, x, b.cacheDir, b.repoDir, key, tickets)
	if err != nil {
		b.err = fmt.Errorf("extracting method history: %w", err)
		return b
	}
	b.info = info
	b.summary.FixCommits = stats.FixCommits
	b.summary.FromCache = fromCache
	b.log.WithFields(logrus.Fields{
		"fix_commits":    stats.FixCommits,
		"commits":        stats.Commits,
		"parse_failures": stats.ParseFailures,
	}).Infof("%d buggy methods", len(info.BuggyMethods))
	return b
}

// WriteReleases extracts the static features of every selected release and
// appends its rows to the raw dataset, oldest release first.
func (b *ProjectBuilder) WriteReleases(ctx context.Context) *ProjectBuilder {
	if b.err != nil {
		return b
	}
	b.summary.RawCSV = filepath.Join(b.cfg.WorkDir, "dataset_"+b.project.Repo+".csv")
	excludes := b.cfg.ExcludesFor(b.project)
	runID := runIDFromContext(ctx)

	for i, release := range b.selection.Releases {
		log := b.log.WithField("release", release)
		files, err := b.releaseFeatures(ctx, release, excludes, log)
		if err != nil {
			b.err = fmt.Errorf("release %s: %w", release, err)
			return b
		}
		rows := AssembleRows(release, files, b.info)

		w, err := outwriter.OpenDataset(b.summary.RawCSV, i > 0)
		if err != nil {
			b.err = fmt.Errorf("opening dataset: %w", err)
			return b
		}
		if err := w.WriteRows(rows); err != nil {
			_ = w.Close()
			b.err = err
			return b
		}
		if err := w.Close(); err != nil {
			b.err = err
			return b
		}

		stat := ReleaseStatOf(release, files, rows)
		b.summary.Releases = append(b.summary.Releases, stat)
		log.WithFields(logrus.Fields{"files": stat.Files, "buggy": stat.Buggy}).Infof("%d methods", stat.Methods)

		if runID > 0 {
			if err := b.deps.runStore().RecordRelease(runID, stat); err != nil {
				contract.LogWarn("Failed to record release stats", err)
			}
		}
	}
	return b
}

// releaseFeatures materializes the source tree of release and extracts its
// method features. HEAD uses the working tree directly.
func (b *ProjectBuilder) releaseFeatures(ctx context.Context, release string, excludes []string, log *logrus.Entry) ([]FileFeatures, error) {
	if release == schema.HeadRelease {
		return ExtractTreeFeatures(ctx, b.repoDir, excludes, b.deps.Parser, log)
	}

	tmp, err := os.MkdirTemp("", "isw2-snapshot-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	root, err := b.snapshot(ctx, release, tmp)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return ExtractTreeFeatures(ctx, root, excludes, b.deps.Parser, log)
}

// snapshot extracts the source tree of tag under dir and returns its root.
func (b *ProjectBuilder) snapshot(ctx context.Context, tag, dir string) (string, error) {
	if b.cfg.SnapshotSource != schema.GitSnapshot {
		return b.deps.Forge.DownloadSnapshot(ctx, b.project.Owner, b.project.Repo, tag, dir)
	}

	zipPath := filepath.Join(dir, "snapshot.zip")
	if err := b.deps.Git.Archive(ctx, b.repoDir, tag, zipPath); err != nil {
		return "", err
	}
	srcDir := filepath.Join(dir, "src")
	if err := forge.ExtractZip(zipPath, srcDir); err != nil {
		return "", err
	}
	return forge.FindSingleSubdir(srcDir)
}

// PostProcess derives the deduplicated, release-cut and reduced datasets from
// the raw one.
func (b *ProjectBuilder) PostProcess() *ProjectBuilder {
	if b.err != nil {
		return b
	}
	base := strings.TrimSuffix(b.summary.RawCSV, ".csv")
	dedup := base + "_dedup.csv"
	filtered := base + "_filtered.csv"
	b.summary.FinalCSV = filepath.Join(b.cfg.WorkDir, b.project.Repo+"_dataset_finale.csv")

	stats, err := outwriter.Deduplicate(b.summary.RawCSV, dedup)
	if err != nil {
		b.err = fmt.Errorf("deduplicating: %w", err)
		return b
	}
	b.log.WithField("file", dedup).Infof("Removed %d duplicate rows", stats.Removed())

	if cut := b.project.ReleaseCut; cut != "" {
		stats, err = outwriter.FilterUpTo(dedup, filtered, cut, CompareVersions)
		if err == nil {
			b.log.WithField("file", filtered).Infof("Dropped %d rows after release %s", stats.Removed(), cut)
		}
	} else {
		err = outwriter.CopyDataset(dedup, filtered)
	}
	if err != nil {
		b.err = fmt.Errorf("applying release cut: %w", err)
		return b
	}

	stats, err = outwriter.Reduce(filtered, b.summary.FinalCSV, CompareVersions)
	if err != nil {
		b.err = fmt.Errorf("reducing: %w", err)
		return b
	}
	b.summary.FinalRows = stats.Written
	b.log.WithField("file", b.summary.FinalCSV).Infof("Final dataset has %d rows", stats.Written)
	return b
}

// ExportParquet writes a Parquet copy of the final dataset when requested.
func (b *ProjectBuilder) ExportParquet() *ProjectBuilder {
	if b.err != nil || b.cfg.OutputFormat != schema.ParquetOut {
		return b
	}
	out := strings.TrimSuffix(b.summary.FinalCSV, ".csv") + ".parquet"
	if err := ConvertDataset(b.summary.FinalCSV, out); err != nil {
		b.err = fmt.Errorf("exporting parquet: %w", err)
		return b
	}
	b.log.WithField("file", out).Info("Wrote Parquet dataset")
	return b
}

// Selection returns the releases chosen by SelectReleases.
func (b *ProjectBuilder) Selection() (schema.ReleaseSelection, error) {
	return b.selection, b.err
}

// Build returns the summary of the project build.
func (b *ProjectBuilder) Build() (schema.BuildSummary, error) {
	return b.summary, b.err
}

// ConvertDataset rewrites a dataset CSV as a Parquet file.
func ConvertDataset(csvPath, parquetPath string) error {
	rows, err := outwriter.ReadDatasetRows(csvPath)
	if err != nil {
		return err
	}
	return parquet.WriteDatasetParquet(rows, parquetPath)
}

func writeJSONArtifact(path string, data any) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return contract.WriteFileAtomic(path, payload)
}
