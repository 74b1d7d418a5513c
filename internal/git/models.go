package git

import (
	"context"
	"strings"
	"time"
)

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA        string
	ParentSHAs []string // In the order the repository records them
	When       time.Time
	Author     AuthorInfo
	Message    string
}

// IsMerge reports whether the commit has more than one parent.
func (c CommitInfo) IsMerge() bool {
	return len(c.ParentSHAs) > 1
}

// ShortSHA returns the abbreviated commit hash.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// FileChange represents a file change within a commit.
type FileChange struct {
	Path         string
	OldPath      string // For renames
	LinesAdded   int
	LinesDeleted int
	Kind         ChangeKind
}

// Churn returns total lines changed (added + deleted).
func (f FileChange) Churn() int {
	return f.LinesAdded + f.LinesDeleted
}

// ChangeKind represents the type of change.
type ChangeKind int

const (
	ChangeKindAdded ChangeKind = iota
	ChangeKindModified
	ChangeKindDeleted
	ChangeKindRenamed
)

// String returns a string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeKindAdded:
		return "added"
	case ChangeKindModified:
		return "modified"
	case ChangeKindDeleted:
		return "deleted"
	case ChangeKindRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// CommitChangeSet bundles a commit with its file changes.
type CommitChangeSet struct {
	Commit  CommitInfo
	Changes []FileChange
}

// Touches reports whether the change set contains path as a changed file.
// A renamed file is reachable through both its new and its old path.
func (cs CommitChangeSet) Touches(path string) bool {
	return cs.ChangeFor(path) != nil
}

// ChangeFor returns the change recorded for path, or nil.
func (cs CommitChangeSet) ChangeFor(path string) *FileChange {
	path = NormalizePath(path)
	for i := range cs.Changes {
		c := &cs.Changes[i]
		if c.Path == path || (c.OldPath != "" && c.OldPath == path) {
			return c
		}
	}
	return nil
}

// NormalizePath converts a user supplied path into the slash-separated,
// repository-relative form used for change keys.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}

// RenameDetectMode controls how file renames are detected.
type RenameDetectMode int

const (
	RenameDetectOff RenameDetectMode = iota
	RenameDetectSimple
	RenameDetectAggressive
)

// String returns the flag spelling of the mode.
func (m RenameDetectMode) String() string {
	switch m {
	case RenameDetectSimple:
		return "simple"
	case RenameDetectAggressive:
		return "aggressive"
	default:
		return "off"
	}
}

// Backend selects the implementation used to read history.
type Backend string

const (
	BackendGoGit Backend = "go-git"
	BackendCLI   Backend = "git"
)

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath     string
	Branch       string // Start revision; empty means HEAD
	All          bool   // Walk every reference instead of Branch
	RenameDetect RenameDetectMode
	OnProgress   func(processed int)
}

// HistorySource yields the commit history of a repository together with the
// per-commit file changes, in the repository's native log order.
type HistorySource interface {
	ReadChanges(ctx context.Context) ([]CommitChangeSet, error)
}
