// Package testutil provides fixture repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo is a throwaway on-disk repository driven through go-git.
type Repo struct {
	Dir  string
	Repo *gogit.Repository

	t  testing.TB
	wt *gogit.Worktree
}

// NewRepo initialises an empty non-bare repository in a temp directory.
func NewRepo(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &Repo{Dir: dir, Repo: repo, t: t, wt: wt}
}

// Write creates or overwrites rel and stages it.
func (r *Repo) Write(rel, content string) {
	r.t.Helper()

	full := filepath.Join(r.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

// Remove deletes rel from the worktree and the index.
func (r *Repo) Remove(rel string) {
	r.t.Helper()

	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

// Commit records the index with the given message and time and returns the
// new commit hash. Extra parents turn the commit into a merge whose first
// parent is HEAD.
func (r *Repo) Commit(msg string, when time.Time, extraParents ...string) string {
	r.t.Helper()

	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
	opts := &gogit.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true}

	if len(extraParents) > 0 {
		head, err := r.Repo.Head()
		if err != nil {
			r.t.Fatalf("Head: %v", err)
		}
		opts.Parents = []plumbing.Hash{head.Hash()}
		for _, p := range extraParents {
			opts.Parents = append(opts.Parents, plumbing.NewHash(p))
		}
	}

	hash, err := r.wt.Commit(msg, opts)
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// Branch returns the short name of the current branch.
func (r *Repo) Branch() string {
	r.t.Helper()

	head, err := r.Repo.Head()
	if err != nil {
		r.t.Fatalf("Head: %v", err)
	}
	return head.Name().Short()
}

// Checkout switches to branch, creating it from HEAD when create is set.
func (r *Repo) Checkout(branch string, create bool) {
	r.t.Helper()

	err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

// MergeHistory is the fixture built by BuildMergeHistory.
type MergeHistory struct {
	Root, Main, Feature, Merge, Unrelated string
}

// BuildMergeHistory creates this history, newest first by committer time:
//
//	unrelated  (touches other.txt only)
//	merge      parents [main, feature], touches file.txt
//	feature    parent root, touches file.txt
//	main       parent root, touches file.txt
//	root       adds file.txt and other.txt
func BuildMergeHistory(r *Repo) MergeHistory {
	r.t.Helper()

	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	var h MergeHistory

	r.Write("file.txt", "root\n")
	r.Write("other.txt", "root\n")
	h.Root = r.Commit("root", base)
	mainBranch := r.Branch()

	r.Checkout("feature", true)
	r.Write("file.txt", "feature\n")
	h.Feature = r.Commit("feature change", base.Add(2*time.Hour))

	r.Checkout(mainBranch, false)
	r.Write("file.txt", "main\n")
	h.Main = r.Commit("main change", base.Add(1*time.Hour))

	r.Write("file.txt", "merged\n")
	h.Merge = r.Commit("merge feature", base.Add(3*time.Hour), h.Feature)

	r.Write("other.txt", "unrelated\n")
	h.Unrelated = r.Commit("unrelated change", base.Add(4*time.Hour))

	return h
}
