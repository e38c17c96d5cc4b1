// Package linediff computes line-level edit lists between two revisions of a file.
package linediff

import (
	"regexp"
	"unicode/utf8"

	"github.com/kuro1999/isw2-dataset/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var lineBreakRe = regexp.MustCompile(`\r?\n`)

// SplitLines splits text on line breaks and drops trailing empty lines.
func SplitLines(text string) []string {
	lines := lineBreakRe.Split(text, -1)
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Edits returns the changed regions turning oldText into newText, in order.
// Adjacent deletions and insertions form a single replace edit.
func Edits(oldText, newText string) []schema.Edit {
	if oldText == newText {
		return nil
	}
	dmp := diffmatchpatch.New()
	src, dst, _ := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(src, dst, false)

	var (
		edits   []schema.Edit
		a, b    int
		pending *schema.Edit
	)
	flush := func() {
		if pending != nil {
			edits = append(edits, *pending)
			pending = nil
		}
	}
	open := func() {
		if pending == nil {
			pending = &schema.Edit{OldBegin: a, OldEnd: a, NewBegin: b, NewEnd: b}
		}
	}

	for _, d := range diffs {
		// Each rune of a line-mode diff stands for one whole line
		size := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			a += size
			b += size
		case diffmatchpatch.DiffDelete:
			open()
			a += size
			pending.OldEnd = a
		case diffmatchpatch.DiffInsert:
			open()
			b += size
			pending.NewEnd = b
		}
	}
	flush()
	return edits
}
