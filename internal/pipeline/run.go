// Package pipeline wires history selection, graph building and rendering
// into a single run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/masmgr/commitgraph-go/internal/git"
	"github.com/masmgr/commitgraph-go/internal/graph"
	"github.com/masmgr/commitgraph-go/internal/history"
	"github.com/masmgr/commitgraph-go/internal/render"
)

var (
	// ErrInvalidRepository means the repository path is missing or not a directory.
	ErrInvalidRepository = errors.New("repository path does not exist or is not a directory")
	// ErrOpenRepository means the directory could not be opened as a repository.
	ErrOpenRepository = errors.New("failed to open repository")
	// ErrReadHistory means the commit history could not be read.
	ErrReadHistory = errors.New("failed to read history")
	// ErrNoMatchingHistory means no commit touched the requested file.
	ErrNoMatchingHistory = errors.New("no commits touch the specified file")
	// ErrRenderFailed means the external renderer did not succeed.
	ErrRenderFailed = render.ErrRenderFailed
)

// Options describes one run.
type Options struct {
	RepoPath   string
	Filename   string
	Glob       bool
	OutputPath string

	Backend git.Backend
	Read    git.ReadOptions // RepoPath is filled from Options.RepoPath
}

// Dependencies are the collaborators of a run.
type Dependencies struct {
	// OpenSource opens the history source; defaults to git.Open.
	OpenSource func(backend git.Backend, opts git.ReadOptions) (git.HistorySource, error)
	// Renderer produces the image; nil skips rendering.
	Renderer *render.Renderer
}

// Summary describes a completed run.
type Summary struct {
	RepoPath         string
	Filename         string
	OutputPath       string
	Selection        history.Selection
	Edges            []graph.Edge
	Document         string
	IntermediatePath string // set when the intermediate document was kept
}

// CheckRepoPath returns ErrInvalidRepository unless path is an existing
// directory. It does not look inside the directory.
func CheckRepoPath(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInvalidRepository, path)
	}
	return nil
}

// Build validates the repository path, selects the commits touching the
// file and builds the graph, without rendering.
func Build(ctx context.Context, opts Options, deps Dependencies) (*Summary, error) {
	if err := CheckRepoPath(opts.RepoPath); err != nil {
		return nil, err
	}

	matcher, err := history.NewMatcher(opts.Filename, opts.Glob)
	if err != nil {
		return nil, err
	}

	open := deps.OpenSource
	if open == nil {
		open = git.Open
	}
	readOpts := opts.Read
	readOpts.RepoPath = opts.RepoPath

	source, err := open(opts.Backend, readOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenRepository, err)
	}

	selection, err := history.NewSelector(source).Select(ctx, matcher)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHistory, err)
	}
	if len(selection) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingHistory, opts.Filename)
	}

	edges := graph.Build(selection.Commits())
	return &Summary{
		RepoPath:   opts.RepoPath,
		Filename:   opts.Filename,
		OutputPath: opts.OutputPath,
		Selection:  selection,
		Edges:      edges,
		Document:   graph.Document(edges),
	}, nil
}

// Run performs Build and renders the document to opts.OutputPath.
// The returned error wraps one of the package sentinels.
func Run(ctx context.Context, opts Options, deps Dependencies) (*Summary, error) {
	summary, err := Build(ctx, opts, deps)
	if err != nil {
		return nil, err
	}
	if deps.Renderer == nil {
		return summary, nil
	}

	res, err := deps.Renderer.Render(ctx, summary.Document, opts.OutputPath)
	if err != nil {
		if errors.Is(err, ErrRenderFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	summary.IntermediatePath = res.IntermediatePath
	return summary, nil
}
