package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// aggressiveRenameScore matches git's default similarity threshold.
const aggressiveRenameScore = 60

// errUnbornHead reports a HEAD that points at a branch with no commits.
var errUnbornHead = errors.New("HEAD has no commits")

// HistoryReader reads commit history from a Git repository using go-git.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return NewHistoryReaderFromRepository(repo, opts), nil
}

// NewHistoryReaderFromRepository wraps an already opened repository.
func NewHistoryReaderFromRepository(repo *git.Repository, opts ReadOptions) *HistoryReader {
	return &HistoryReader{repo: repo, opts: opts}
}

// ReadChanges walks the history newest first by committer time, which is
// the order `git rev-list` uses by default, and returns every commit with
// the files it changed relative to its first parent. Root commits are
// compared against the empty tree.
func (r *HistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	logOpts, err := r.logOptions()
	if err != nil {
		if errors.Is(err, errUnbornHead) {
			return nil, nil
		}
		return nil, err
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}
	defer cIter.Close()

	var results []CommitChangeSet
	processed := 0

	err = cIter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		changes, err := r.getCommitChanges(ctx, c)
		if err != nil {
			return fmt.Errorf("commit %s: %w", c.Hash, err)
		}

		parents := make([]string, 0, len(c.ParentHashes))
		for _, h := range c.ParentHashes {
			parents = append(parents, h.String())
		}

		// Extract first line of commit message
		message := c.Message
		if idx := strings.IndexByte(message, '\n'); idx != -1 {
			message = message[:idx]
		}

		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:        c.Hash.String(),
				ParentSHAs: parents,
				When:       c.Committer.When,
				Author:     AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
				Message:    message,
			},
			Changes: changes,
		})

		processed++
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(processed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *HistoryReader) logOptions() (*git.LogOptions, error) {
	logOpts := &git.LogOptions{Order: git.LogOrderCommitterTime}

	if r.opts.All {
		logOpts.All = true
		return logOpts, nil
	}

	rev := strings.TrimSpace(r.opts.Branch)
	if rev == "" || strings.EqualFold(rev, "HEAD") {
		ref, err := r.repo.Head()
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return nil, errUnbornHead
			}
			return nil, err
		}
		logOpts.From = ref.Hash()
		return logOpts, nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	logOpts.From = *hash
	return logOpts, nil
}

// getCommitChanges extracts file changes from a commit.
func (r *HistoryReader) getCommitChanges(ctx context.Context, c *object.Commit) ([]FileChange, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	parentTree := &object.Tree{}
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	treeChanges, err := object.DiffTreeWithOptions(ctx, parentTree, tree, r.diffTreeOptions())
	if err != nil {
		return nil, err
	}

	patch, err := treeChanges.PatchContext(ctx)
	if err != nil {
		return nil, err
	}

	var changes []FileChange

	for _, filePatch := range patch.FilePatches() {
		from, to := filePatch.Files()

		var path, oldPath string
		var kind ChangeKind

		switch {
		case from == nil && to != nil:
			path = to.Path()
			kind = ChangeKindAdded
		case from != nil && to == nil:
			path = from.Path()
			kind = ChangeKindDeleted
		case from != nil && to != nil && from.Path() != to.Path():
			path = to.Path()
			oldPath = from.Path()
			kind = ChangeKindRenamed
		default:
			if to != nil {
				path = to.Path()
			} else if from != nil {
				path = from.Path()
			}
			kind = ChangeKindModified
		}

		if path == "" {
			continue
		}

		var added, deleted int
		for _, chunk := range filePatch.Chunks() {
			switch chunk.Type() {
			case fdiff.Add:
				added += countLines(chunk.Content())
			case fdiff.Delete:
				deleted += countLines(chunk.Content())
			}
		}

		changes = append(changes, FileChange{
			Path:         path,
			OldPath:      oldPath,
			LinesAdded:   added,
			LinesDeleted: deleted,
			Kind:         kind,
		})
	}

	return changes, nil
}

func (r *HistoryReader) diffTreeOptions() *object.DiffTreeOptions {
	switch r.opts.RenameDetect {
	case RenameDetectSimple:
		return &object.DiffTreeOptions{DetectRenames: true, OnlyExactRenames: true}
	case RenameDetectAggressive:
		return &object.DiffTreeOptions{DetectRenames: true, RenameScore: aggressiveRenameScore}
	default:
		return &object.DiffTreeOptions{}
	}
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
