package core

import (
	"path"
	"regexp"
	"strings"
)

var (
	blockComment   = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment    = regexp.MustCompile(`//.*`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	operatorSpaces = regexp.MustCompile(`\s*([{}();=+\-*/])\s*`)
)

// NormalizeBody reduces a method body to a form that ignores comments and
// formatting. Two bodies that differ only in those respects normalize equal.
func NormalizeBody(body string) string {
	s := blockComment.ReplaceAllString(body, "")
	s = lineComment.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	return operatorSpaces.ReplaceAllString(s, "$1")
}

// BodyChanged reports whether two bodies differ after normalization.
func BodyChanged(oldBody, newBody string) bool {
	return NormalizeBody(oldBody) != NormalizeBody(newBody)
}

// NormalizeID removes every whitespace run from a method id.
func NormalizeID(raw string) string {
	return whitespaceRun.ReplaceAllString(raw, "")
}

// MethodID builds the normalized identity of a method declared in the file at
// filePath: the file base name, "#", then the signature without whitespace.
func MethodID(filePath, signature string) string {
	return NormalizeID(path.Base(toSlash(filePath)) + "#" + signature)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
