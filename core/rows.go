package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// FileFeatures holds the static features of the methods of one source file.
type FileFeatures struct {
	RelPath  string
	Features []schema.MethodFeatures
}

// ExtractTreeFeatures walks root in lexical order and extracts the method
// features of every Java file not matched by excludes. Unparseable files are
// logged and skipped.
func ExtractTreeFeatures(ctx context.Context, root string, excludes []string, parser contract.MethodParser, log *logrus.Entry) ([]FileFeatures, error) {
	var files []FileFeatures
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !contract.IsJavaSource(p) || contract.ShouldIgnore(rel, excludes) {
			return nil
		}

		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		features, err := parser.Features(src)
		if err != nil {
			log.WithField("file", rel).WithError(err).Warn("Parse failure, skipping file")
			return nil
		}
		if len(features) > 0 {
			files = append(files, FileFeatures{RelPath: filepath.ToSlash(rel), Features: features})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// AssembleRows joins the static features of one release with the history
// metrics of info. Methods without history get zero metrics.
func AssembleRows(release string, files []FileFeatures, info *schema.BuggyInfo) []schema.DatasetRow {
	var rows []schema.DatasetRow
	for _, f := range files {
		fileName := filepath.Base(filepath.FromSlash(f.RelPath))
		for _, mf := range f.Features {
			id := MethodID(fileName, mf.Signature)
			m := info.MetricsFor(id)
			rows = append(rows, schema.DatasetRow{
				Version:              release,
				FileName:             fileName,
				MethodName:           mf.Signature,
				LOC:                  mf.LOC,
				CognitiveComplexity:  mf.CognitiveComplexity,
				CyclomaticComplexity: mf.CyclomaticComplexity,
				CodeSmells:           mf.CodeSmells,
				NestingDepth:         mf.NestingDepth,
				ParameterCount:       mf.ParameterCount,
				ChurnTotal:           m.Structural.Churn,
				AvgAdded:             m.AddDelete.AvgAdded,
				MaxAdded:             m.AddDelete.MaxAdded,
				AvgDeleted:           m.AddDelete.AvgDeleted,
				MaxDeleted:           m.AddDelete.MaxDeleted,
				AvgChurn:             m.Structural.AvgChurn,
				MaxChurn:             m.Structural.MaxChurn,
				ElseAdded:            m.ElseMetrics.ElseAdded,
				ElseDeleted:          m.ElseMetrics.ElseDeleted,
				CondChanges:          m.Structural.CondChanges,
				DecisionPoints:       mf.DecisionPoints,
				Histories:            m.Complexity.HistoryCount,
				Authors:              m.Complexity.AuthorCount,
				Buggy:                info.IsBuggy(id),
			})
		}
	}
	return rows
}

// ReleaseStatOf counts the files, methods and buggy methods of a release.
func ReleaseStatOf(release string, files []FileFeatures, rows []schema.DatasetRow) schema.ReleaseStat {
	stat := schema.ReleaseStat{Release: release, Files: len(files), Methods: len(rows)}
	for _, r := range rows {
		if r.Buggy {
			stat.Buggy++
		}
	}
	return stat
}
