package core

import (
	"path"
	"strings"
	"time"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/internal/linediff"
	"github.com/kuro1999/isw2-dataset/schema"
)

// skipChange reports whether a diff entry is outside attribution: renames,
// non-Java files and test sources are skipped.
func skipChange(fc schema.FileChange) bool {
	if fc.Type == schema.ChangeRename {
		return true
	}
	p := toSlash(fc.NewPath)
	if !strings.HasSuffix(p, ".java") {
		return true
	}
	return strings.Contains(p, "test/") || strings.HasSuffix(p, "Test.java")
}

// pairable reports whether both sides of the entry exist, which is required
// to match methods across revisions.
func pairable(fc schema.FileChange) bool {
	return fc.OldID != "" && fc.OldID != schema.ZeroID && fc.NewID != "" && fc.NewID != schema.ZeroID
}

// revision is one parsed side of a diff entry.
type revision struct {
	lines   []string
	methods []schema.MethodDecl
}

// attributeChange matches every method of the new revision with the first
// old method of identical signature and records one attribution per edit
// touching the new method's lines. Methods whose normalized body changed are
// reported as buggy. A side that fails to parse is treated as having no methods.
func attributeChange(parser contract.MethodParser, fc schema.FileChange, oldSrc, newSrc []byte, author string, when time.Time) schema.FileOutcome {
	outcome := schema.FileOutcome{Path: fc.NewPath}

	oldRev, oldErr := parseRevision(parser, oldSrc)
	newRev, newErr := parseRevision(parser, newSrc)
	outcome.ParseFailed = oldErr != nil || newErr != nil
	if len(newRev.methods) == 0 || len(oldRev.methods) == 0 {
		return outcome
	}

	edits := linediff.Edits(string(oldSrc), string(newSrc))
	base := path.Base(toSlash(fc.NewPath))

	for _, nm := range newRev.methods {
		om, ok := findBySignature(oldRev.methods, nm.Signature)
		if !ok {
			continue
		}
		id := MethodID(base, nm.Signature)
		for _, e := range edits {
			if !touches(e, nm) {
				continue
			}
			outcome.Attributions = append(outcome.Attributions, attributeEdit(id, e, oldRev.lines, newRev.lines, author, when))
		}
		if BodyChanged(om.Body, nm.Body) {
			outcome.Buggy = append(outcome.Buggy, id)
		}
	}
	return outcome
}

func parseRevision(parser contract.MethodParser, src []byte) (revision, error) {
	rev := revision{lines: linediff.SplitLines(string(src))}
	methods, err := parser.Index(src)
	if err != nil {
		return rev, err
	}
	rev.methods = methods
	return rev, nil
}

func findBySignature(methods []schema.MethodDecl, signature string) (schema.MethodDecl, bool) {
	for _, m := range methods {
		if m.Signature == signature {
			return m, true
		}
	}
	return schema.MethodDecl{}, false
}

// touches compares the 0-based edit range with the 1-based method lines
// exactly as the line numbers are, so an edit starting on the line right
// after the method still counts while one ending on the line before it does not.
func touches(e schema.Edit, m schema.MethodDecl) bool {
	return e.NewBegin <= m.End && e.NewEnd >= m.Begin
}

func attributeEdit(id string, e schema.Edit, oldLines, newLines []string, author string, when time.Time) schema.Attribution {
	a := schema.Attribution{
		MethodID:  id,
		Added:     e.Added(),
		Deleted:   e.Deleted(),
		Author:    author,
		Timestamp: when,
	}
	a.Churn = a.Added + a.Deleted

	for ln := e.NewBegin; ln < e.NewEnd && ln < len(newLines); ln++ {
		line := newLines[ln]
		if strings.Contains(line, "else") {
			a.ElseAdded++
		}
		if isConditionLine(line) {
			a.CondChanges++
		}
	}
	for ln := e.OldBegin; ln < e.OldEnd && ln < len(oldLines); ln++ {
		if strings.Contains(oldLines[ln], "else") {
			a.ElseDeleted++
		}
	}
	return a
}

func isConditionLine(line string) bool {
	return strings.Contains(line, "if") || strings.Contains(line, "case") || strings.Contains(line, "switch")
}
