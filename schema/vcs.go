package schema

import "time"

// ReleaseTag is a repository tag peeled to its commit.
type ReleaseTag struct {
	Name   string `json:"name"`
	Commit string `json:"commit"`
}

// Commit carries the metadata needed to link and attribute a commit.
type Commit struct {
	ID         string    `json:"id"`
	Parents    []string  `json:"parents"`
	Author     string    `json:"author"`
	AuthorTime time.Time `json:"authorTime"`
	Message    string    `json:"message"`
}

// FirstParent returns the first parent id, or "" for a root commit.
func (c Commit) FirstParent() string {
	if len(c.Parents) == 0 {
		return ""
	}
	return c.Parents[0]
}

// FileChange is one entry of a tree-to-tree diff with rename detection.
type FileChange struct {
	Type    ChangeType `json:"type"`
	OldPath string     `json:"oldPath"`
	NewPath string     `json:"newPath"`
	OldID   string     `json:"oldId"`
	NewID   string     `json:"newId"`
}

// Edit is a changed region between two line sequences. Ranges are
// 0-based and half-open: old lines [OldBegin, OldEnd) were replaced by
// new lines [NewBegin, NewEnd).
type Edit struct {
	OldBegin int `json:"oldBegin"`
	OldEnd   int `json:"oldEnd"`
	NewBegin int `json:"newBegin"`
	NewEnd   int `json:"newEnd"`
}

// Added returns the number of new-side lines.
func (e Edit) Added() int { return e.NewEnd - e.NewBegin }

// Deleted returns the number of old-side lines.
func (e Edit) Deleted() int { return e.OldEnd - e.OldBegin }
