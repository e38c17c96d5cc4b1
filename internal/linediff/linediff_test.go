package linediff

import (
	"strings"
	"testing"

	"github.com/kuro1999/isw2-dataset/schema"
	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single without newline", "a", []string{"a"}},
		{"trailing newline dropped", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"inner blank kept", "a\n\nb", []string{"a", "", "b"}},
		{"only newlines", "\n\n\n", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}

func TestEdits(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []schema.Edit
	}{
		{
			name: "identical",
			old:  "a\nb\n",
			new:  "a\nb\n",
			want: nil,
		},
		{
			name: "single line replaced",
			old:  "class A {\nint f() {return 1;}\n}\n",
			new:  "class A {\nint f() {return 2;}\n}\n",
			want: []schema.Edit{{OldBegin: 1, OldEnd: 2, NewBegin: 1, NewEnd: 2}},
		},
		{
			name: "pure insertion",
			old:  "a\nc\n",
			new:  "a\nb\nc\n",
			want: []schema.Edit{{OldBegin: 1, OldEnd: 1, NewBegin: 1, NewEnd: 2}},
		},
		{
			name: "pure deletion",
			old:  "a\nb\nc\n",
			new:  "a\nc\n",
			want: []schema.Edit{{OldBegin: 1, OldEnd: 2, NewBegin: 1, NewEnd: 1}},
		},
		{
			name: "added file",
			old:  "",
			new:  "a\nb\n",
			want: []schema.Edit{{OldBegin: 0, OldEnd: 0, NewBegin: 0, NewEnd: 2}},
		},
		{
			name: "two separate regions",
			old:  "1\n2\n3\n4\n5\n",
			new:  "1\nX\n3\n4\nY\n",
			want: []schema.Edit{
				{OldBegin: 1, OldEnd: 2, NewBegin: 1, NewEnd: 2},
				{OldBegin: 4, OldEnd: 5, NewBegin: 4, NewEnd: 5},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Edits(tt.old, tt.new))
		})
	}
}

func TestEdits_ElseHunk(t *testing.T) {
	old := strings.Join([]string{
		"int f(int x) {",
		"  if (x > 0) { return 1; }",
		"  else { return 0; }",
		"}",
	}, "\n") + "\n"
	updated := strings.Join([]string{
		"int f(int x) {",
		"  if (x > 0) { return 1; }",
		"  else if (x < 0) { return -1; }",
		"  else { return 0; }",
		"}",
	}, "\n") + "\n"

	edits := Edits(old, updated)
	var added, deleted int
	for _, e := range edits {
		added += e.Added()
		deleted += e.Deleted()
	}
	assert.Equal(t, 1, added-deleted, "one line is inserted net")
	assert.NotEmpty(t, edits)
}

// TestEdits_Consistency checks that every edit stays within both line counts
// and that edits are ordered and disjoint.
func TestEdits_Consistency(t *testing.T) {
	old := "a\nb\nc\nd\ne\nf\n"
	updated := "a\nB\nc\ne\nf\ng\nh\n"
	oldN, newN := len(SplitLines(old)), len(SplitLines(updated))

	prevOld, prevNew := 0, 0
	for _, e := range Edits(old, updated) {
		assert.LessOrEqual(t, prevOld, e.OldBegin)
		assert.LessOrEqual(t, prevNew, e.NewBegin)
		assert.LessOrEqual(t, e.OldBegin, e.OldEnd)
		assert.LessOrEqual(t, e.NewBegin, e.NewEnd)
		assert.LessOrEqual(t, e.OldEnd, oldN)
		assert.LessOrEqual(t, e.NewEnd, newN)
		assert.True(t, e.Added() > 0 || e.Deleted() > 0)
		prevOld, prevNew = e.OldEnd, e.NewEnd
	}
}
