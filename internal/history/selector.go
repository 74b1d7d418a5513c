// Package history selects the commits that touched a file.
package history

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/commitgraph-go/internal/git"
)

// Selection is the ordered list of commits that touched the target path,
// in the order the history source produced them.
type Selection []git.CommitChangeSet

// Commits returns the commit records of the selection.
func (s Selection) Commits() []git.CommitInfo {
	commits := make([]git.CommitInfo, len(s))
	for i, cs := range s {
		commits[i] = cs.Commit
	}
	return commits
}

// Matcher decides whether a commit's change set touches the target.
type Matcher interface {
	Matches(cs git.CommitChangeSet) bool
}

// ExactPath matches change sets that contain the path as a changed file.
type ExactPath string

// Matches implements Matcher.
func (p ExactPath) Matches(cs git.CommitChangeSet) bool {
	return cs.Touches(string(p))
}

// GlobPattern matches change sets where any changed path matches a
// doublestar pattern.
type GlobPattern string

// Matches implements Matcher.
func (p GlobPattern) Matches(cs git.CommitChangeSet) bool {
	for _, c := range cs.Changes {
		if matched, _ := doublestar.Match(string(p), c.Path); matched {
			return true
		}
		if c.OldPath != "" {
			if matched, _ := doublestar.Match(string(p), c.OldPath); matched {
				return true
			}
		}
	}
	return false
}

// NewMatcher builds the matcher for filename. With glob set, filename is
// validated as a doublestar pattern.
func NewMatcher(filename string, glob bool) (Matcher, error) {
	filename = git.NormalizePath(filename)
	if filename == "" {
		return nil, fmt.Errorf("empty filename")
	}
	if !glob {
		return ExactPath(filename), nil
	}
	if !doublestar.ValidatePattern(filename) {
		return nil, fmt.Errorf("invalid glob pattern %q", filename)
	}
	return GlobPattern(filename), nil
}

// Selector filters a repository's history down to the commits touching a path.
type Selector struct {
	source git.HistorySource
}

// NewSelector creates a selector reading from source.
func NewSelector(source git.HistorySource) *Selector {
	return &Selector{source: source}
}

// Select reads the full history and keeps the change sets accepted by m,
// preserving history order. An empty result is not an error.
func (s *Selector) Select(ctx context.Context, m Matcher) (Selection, error) {
	changeSets, err := s.source.ReadChanges(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(changeSets, m), nil
}

// Filter keeps the change sets accepted by m, preserving order.
func Filter(changeSets []git.CommitChangeSet, m Matcher) Selection {
	selection := make(Selection, 0, len(changeSets))
	for _, cs := range changeSets {
		if m.Matches(cs) {
			selection = append(selection, cs)
		}
	}
	return selection
}
