package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/internal/pipeline"
	"github.com/masmgr/commitgraph-go/internal/watch"
)

// WatchCmd returns the watch command, which re-renders the graph whenever
// the repository's refs change.
func WatchCmd() *cli.Command {
	flags := append(renderFlags(),
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Quiet period after the last change before re-rendering (default: 300ms)",
		},
	)

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Re-render the graph each time the repository changes, until interrupted",
		Flags:   flags,
		Action:  watchAction,
	}
}

func watchAction(c *cli.Context) error {
	cc, err := NewCommandContext(c)
	if err != nil {
		return exitError(err, c.App.ErrWriter, false)
	}
	deps, err := cc.RenderDependencies(c)
	if err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}
	if err := pipeline.CheckRepoPath(cc.Options.RepoPath); err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}

	debounce := cc.Config.Watch.Debounce()
	if ctx := flagContext(c, "debounce"); ctx != nil {
		debounce = ctx.Duration("debounce")
	}

	red := color.New(color.FgRed)
	w, err := watch.New(cc.Options.RepoPath, func(ctx context.Context) error {
		summary, err := pipeline.Run(ctx, cc.Options, deps)
		if err != nil {
			return err
		}
		fmt.Fprintf(cc.Stdout, msgSuccess+"\n", summary.OutputPath)
		return nil
	}, watch.Options{
		Debounce:  debounce,
		Immediate: true,
		OnChange: func(path string) {
			if cc.Verbose {
				color.New(color.FgCyan).Fprintf(cc.Stderr, "Change detected: %s\n", path)
			}
		},
		OnError: func(err error) {
			if c.Context.Err() != nil {
				return
			}
			red.Fprintln(cc.Stdout, diagnosticMessage(err))
			if cc.Verbose {
				fmt.Fprintf(cc.Stderr, "cause: %v\n", err)
			}
		},
	})
	if err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}

	color.New(color.FgGreen).Fprintf(cc.Stderr, "Watching %s (press Ctrl+C to stop)\n", cc.Options.RepoPath)
	start := time.Now()
	if err := w.Run(c.Context); err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}
	cc.Completed(start)
	return nil
}
