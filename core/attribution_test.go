package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuro1999/isw2-dataset/internal/javaparse"
	"github.com/kuro1999/isw2-dataset/schema"
)

var when = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func javaChange(path string) schema.FileChange {
	return schema.FileChange{Type: schema.ChangeModify, OldPath: path, NewPath: path, OldID: "old", NewID: "new"}
}

func TestAttributeChange_BodyChange(t *testing.T) {
	oldSrc := "class A {\n    int f() {\n        return 1;\n    }\n}\n"
	newSrc := "class A {\n    int f() {\n        return 2;\n    }\n}\n"

	out := attributeChange(javaparse.NewParser(), javaChange("src/A.java"), []byte(oldSrc), []byte(newSrc), "ann", when)

	assert.False(t, out.ParseFailed)
	assert.Equal(t, []string{"A.java#intf()"}, out.Buggy)
	require.Len(t, out.Attributions, 1)
	a := out.Attributions[0]
	assert.Equal(t, "A.java#intf()", a.MethodID)
	assert.Equal(t, 1, a.Added)
	assert.Equal(t, 1, a.Deleted)
	assert.Equal(t, 2, a.Churn)
	assert.Zero(t, a.ElseAdded)
	assert.Zero(t, a.CondChanges)
	assert.Equal(t, "ann", a.Author)
	assert.Equal(t, when, a.Timestamp)
}

func TestAttributeChange_CommentOnly(t *testing.T) {
	oldSrc := "class A {\n    int f() {\n        return 1;\n    }\n}\n"
	newSrc := "class A {\n    int f() {\n        // note\n        return 1;\n    }\n}\n"

	out := attributeChange(javaparse.NewParser(), javaChange("A.java"), []byte(oldSrc), []byte(newSrc), "ann", when)

	assert.Empty(t, out.Buggy, "comment-only change is not a body change")
	require.Len(t, out.Attributions, 1)
	assert.Equal(t, 1, out.Attributions[0].Added)
	assert.Equal(t, 0, out.Attributions[0].Deleted)
}

func TestAttributeChange_SignatureChange(t *testing.T) {
	oldSrc := "class A {\n    int f() {\n        return 1;\n    }\n}\n"
	newSrc := "class A {\n    int f(int x) {\n        return x;\n    }\n}\n"

	out := attributeChange(javaparse.NewParser(), javaChange("A.java"), []byte(oldSrc), []byte(newSrc), "ann", when)
	assert.Empty(t, out.Attributions)
	assert.Empty(t, out.Buggy)
}

func TestAttributeChange_NoMethods(t *testing.T) {
	oldSrc := "interface I {}\n"
	newSrc := "interface I {\n}\n"
	out := attributeChange(javaparse.NewParser(), javaChange("I.java"), []byte(oldSrc), []byte(newSrc), "ann", when)
	assert.Empty(t, out.Attributions)
	assert.False(t, out.ParseFailed)
}

type failingParser struct{}

func (failingParser) Index([]byte) ([]schema.MethodDecl, error) {
	return nil, errors.New("boom")
}

func (failingParser) Features([]byte) ([]schema.MethodFeatures, error) {
	return nil, errors.New("boom")
}

func TestAttributeChange_ParseFailure(t *testing.T) {
	out := attributeChange(failingParser{}, javaChange("A.java"), []byte("x"), []byte("y"), "ann", when)
	assert.True(t, out.ParseFailed)
	assert.Empty(t, out.Attributions)
}

func TestAttributeChange_SyntaxError(t *testing.T) {
	oldSrc := "class A {\n    int f() {\n        return 1;\n    }\n}\n"
	newSrc := "class A {\n    int f() {\n        return 2;\n    }\n    void g( {\n}\n"

	out := attributeChange(javaparse.NewParser(), javaChange("A.java"), []byte(oldSrc), []byte(newSrc), "ann", when)
	assert.True(t, out.ParseFailed)
	assert.Empty(t, out.Attributions, "a broken revision has no methods")
	assert.Empty(t, out.Buggy)
}

func TestAttributeEdit_ElseAccounting(t *testing.T) {
	oldLines := []string{"if (a) {", "} else {", "}"}
	newLines := []string{"if (a) {", "  y();", "} else {", "  else_branch();", "}"}
	e := schema.Edit{OldBegin: 1, OldEnd: 2, NewBegin: 1, NewEnd: 4}

	a := attributeEdit("A.java#voidf()", e, oldLines, newLines, "ann", when)
	assert.Equal(t, 2, a.ElseAdded)
	assert.Equal(t, 1, a.ElseDeleted)
	assert.Zero(t, a.CondChanges)
	assert.Equal(t, 3, a.Added)
	assert.Equal(t, 1, a.Deleted)
	assert.Equal(t, 4, a.Churn)
}

func TestAttributeEdit_Conditions(t *testing.T) {
	newLines := []string{"if (x) {", "switch (y) {", "case 1:", "return;"}
	a := attributeEdit("id", schema.Edit{NewBegin: 0, NewEnd: 4}, nil, newLines, "ann", when)
	assert.Equal(t, 3, a.CondChanges)
	assert.Zero(t, a.Deleted)
}

func TestAttributeEdit_ClampsToLineCount(t *testing.T) {
	a := attributeEdit("id", schema.Edit{OldBegin: 0, OldEnd: 9, NewBegin: 0, NewEnd: 9}, []string{"else"}, []string{"else"}, "ann", when)
	assert.Equal(t, 1, a.ElseAdded)
	assert.Equal(t, 1, a.ElseDeleted)
	assert.Equal(t, 18, a.Churn, "counts use the edit range, not the clamped lines")
}

func TestTouches(t *testing.T) {
	m := schema.MethodDecl{Begin: 10, End: 20}
	tests := []struct {
		name string
		edit schema.Edit
		want bool
	}{
		{"inside", schema.Edit{NewBegin: 12, NewEnd: 14}, true},
		{"ends on first line", schema.Edit{NewBegin: 8, NewEnd: 10}, true},
		{"starts on line after", schema.Edit{NewBegin: 20, NewEnd: 22}, true},
		{"covers method", schema.Edit{NewBegin: 0, NewEnd: 40}, true},
		{"ends on line before", schema.Edit{NewBegin: 2, NewEnd: 9}, false},
		{"after", schema.Edit{NewBegin: 21, NewEnd: 25}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, touches(tt.edit, m))
		})
	}
}

func TestSkipChange(t *testing.T) {
	tests := []struct {
		name string
		fc   schema.FileChange
		skip bool
		pair bool
	}{
		{"modified source", javaChange("src/main/java/A.java"), false, true},
		{"rename", schema.FileChange{Type: schema.ChangeRename, NewPath: "B.java", OldID: "a", NewID: "b"}, true, true},
		{"not java", javaChange("README.md"), true, true},
		{"test dir", javaChange("src/test/java/A.java"), true, true},
		{"test suffix", javaChange("src/main/java/ATest.java"), true, true},
		{"added file", schema.FileChange{Type: schema.ChangeAdd, NewPath: "A.java", OldID: schema.ZeroID, NewID: "b"}, false, false},
		{"deleted file", schema.FileChange{Type: schema.ChangeDelete, NewPath: "A.java", OldID: "a", NewID: schema.ZeroID}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.skip, skipChange(tt.fc))
			assert.Equal(t, tt.pair, pairable(tt.fc))
		})
	}
}
