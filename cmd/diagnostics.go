package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/internal/pipeline"
	"github.com/masmgr/commitgraph-go/internal/render"
)

const (
	msgInvalidRepository = "The specified repository path does not exist."
	msgNoMatchingHistory = "No commits touch the specified file."
	msgRenderFailed      = "Failed to create the graph image."
	msgSuccess           = "Commit graph successfully created and saved to %s"
)

// diagnosticMessage returns the user-facing message for a run error.
func diagnosticMessage(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRepository):
		return msgInvalidRepository
	case errors.Is(err, pipeline.ErrNoMatchingHistory):
		return msgNoMatchingHistory
	case errors.Is(err, pipeline.ErrRenderFailed):
		return msgRenderFailed
	default:
		return "Error: " + err.Error()
	}
}

// exitError converts a run error into a cli exit error with status 1. The
// renderer's own stderr, and in verbose mode the full cause, go to stderr.
func exitError(err error, stderr io.Writer, verbose bool) error {
	if err == nil {
		return nil
	}
	var rerr *render.Error
	if errors.As(err, &rerr) && rerr.Stderr != "" {
		fmt.Fprintln(stderr, rerr.Stderr)
	}
	if verbose {
		fmt.Fprintf(stderr, "cause: %v\n", err)
	}
	return cli.Exit(diagnosticMessage(err), 1)
}
