package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// ExtractStats summarizes one history walk.
type ExtractStats struct {
	Tags          int
	Ranges        int
	Commits       int
	FixCommits    int
	SkippedRoots  int
	ParseFailures int
}

// Extractor walks the fix commits of a repository and aggregates the method
// changes they make.
type Extractor struct {
	git     contract.GitClient
	parser  contract.MethodParser
	workers int
	log     *logrus.Entry
}

// NewExtractor creates an extractor that parses up to workers files of a commit at once.
func NewExtractor(git contract.GitClient, parser contract.MethodParser, workers int, log *logrus.Entry) *Extractor {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logrus.NewEntry(contract.Logger)
	}
	return &Extractor{git: git, parser: parser, workers: workers, log: log}
}

// Extract labels and measures the methods changed by fix commits of projectKey.
// Commits are enumerated per adjacent pair of semver-ordered tags; with fewer
// than two tags every ref is scanned instead. A commit reachable from several
// ranges is processed once.
func (x *Extractor) Extract(ctx context.Context, repoPath, projectKey string, tickets []schema.Ticket) (*schema.BuggyInfo, ExtractStats, error) {
	var stats ExtractStats

	bugs := FilterBugTickets(tickets)
	x.log.WithField("tickets", len(tickets)).Infof("%d bug tickets qualify", len(bugs))
	if len(bugs) == 0 {
		x.log.Warn("No valid bug tickets, every method will be labelled clean")
		return schema.NewBuggyInfo(), stats, nil
	}
	linker := NewLinker(projectKey, bugs)

	ranges, ntags, err := x.commitRanges(ctx, repoPath)
	if err != nil {
		return nil, stats, err
	}
	stats.Tags = ntags
	stats.Ranges = len(ranges)

	history := NewHistory()
	reader := &blobReader{git: x.git, repo: repoPath}
	seen := map[string]struct{}{}

	for _, r := range ranges {
		commits, err := x.git.ListCommits(ctx, repoPath, r.from, r.to)
		if err != nil {
			return nil, stats, fmt.Errorf("listing commits %s: %w", r, err)
		}
		x.log.WithField("range", r.String()).Debugf("%d commits", len(commits))

		for _, c := range commits {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			stats.Commits++

			keys := linker.Match(c.Message)
			if len(keys) == 0 {
				continue
			}
			parent := c.FirstParent()
			if parent == "" {
				stats.SkippedRoots++
				continue
			}

			outcomes, err := x.processCommit(ctx, reader, c, parent)
			if err != nil {
				if ctx.Err() != nil {
					return nil, stats, ctx.Err()
				}
				x.log.WithField("commit", shortID(c.ID)).WithError(err).Warn("Skipping fix commit")
				continue
			}
			for _, o := range outcomes {
				if o.ParseFailed {
					stats.ParseFailures++
				}
			}
			history.AddCommit(outcomes)
			x.log.WithFields(logrus.Fields{"commit": shortID(c.ID), "tickets": keys}).Debugf("%d files attributed", len(outcomes))
		}
	}

	stats.FixCommits = history.FixCommits()
	return history.Finalize(), stats, nil
}

// commitRange is the (from, to] span between two tagged commits.
type commitRange struct {
	from, to string
	label    string
}

func (r commitRange) String() string {
	return r.label
}

// commitRanges orders the repository tags by version and returns the ranges
// between neighbours, or a single all-refs range when there are fewer than two tags.
func (x *Extractor) commitRanges(ctx context.Context, repoPath string) ([]commitRange, int, error) {
	tags, err := x.git.ListTags(ctx, repoPath)
	if err != nil {
		return nil, 0, fmt.Errorf("listing tags: %w", err)
	}
	if len(tags) < 2 {
		x.log.Infof("Only %d tags, scanning every ref", len(tags))
		return []commitRange{{label: "--all"}}, len(tags), nil
	}

	names := make([]string, len(tags))
	byName := make(map[string]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
		byName[t.Name] = t.Commit
	}
	SortVersions(names)

	ranges := make([]commitRange, 0, len(names)-1)
	for i := 1; i < len(names); i++ {
		prev, curr := names[i-1], names[i]
		ranges = append(ranges, commitRange{
			from:  byName[prev],
			to:    byName[curr],
			label: prev + ".." + curr,
		})
	}
	return ranges, len(tags), nil
}

// processCommit attributes every eligible diff entry of c against its first
// parent. Entries are parsed concurrently and returned in diff order.
func (x *Extractor) processCommit(ctx context.Context, reader *blobReader, c schema.Commit, parent string) ([]schema.FileOutcome, error) {
	changes, err := x.git.ListChanges(ctx, reader.repo, parent, c.ID)
	if err != nil {
		return nil, err
	}

	var eligible []schema.FileChange
	for _, fc := range changes {
		if skipChange(fc) || !pairable(fc) {
			continue
		}
		eligible = append(eligible, fc)
	}

	outcomes := make([]schema.FileOutcome, len(eligible))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for i, fc := range eligible {
		g.Go(func() error {
			oldSrc, err := reader.read(gctx, fc.OldID)
			if err != nil {
				return fmt.Errorf("reading %s: %w", fc.OldPath, err)
			}
			newSrc, err := reader.read(gctx, fc.NewID)
			if err != nil {
				return fmt.Errorf("reading %s: %w", fc.NewPath, err)
			}
			outcomes[i] = attributeChange(x.parser, fc, oldSrc, newSrc, c.Author, c.AuthorTime)
			if outcomes[i].ParseFailed {
				x.log.WithFields(logrus.Fields{"commit": shortID(c.ID), "file": fc.NewPath}).Warn("Parse failure, treating file as empty")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// blobReader serializes access to the object store.
type blobReader struct {
	mu   sync.Mutex
	git  contract.GitClient
	repo string
}

func (r *blobReader) read(ctx context.Context, id string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.git.ReadBlob(ctx, r.repo, id)
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
