package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/internal/pipeline"
)

// RenderCmd returns the render command. It is also the default action.
func RenderCmd() *cli.Command {
	return &cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Render the commit graph of a file to an image",
		Flags:   renderFlags(),
		Action:  renderAction,
	}
}

func renderAction(c *cli.Context) error {
	if c.NArg() == 0 && flagContext(c, "repo-path") == nil && flagContext(c, "filename") == nil {
		return cli.ShowAppHelp(c)
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return exitError(err, c.App.ErrWriter, false)
	}
	deps, err := cc.RenderDependencies(c)
	if err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}

	start := time.Now()
	cc.Scanning()
	summary, err := pipeline.Run(c.Context, cc.Options, deps)
	if err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}
	cc.Completed(start)

	if summary.IntermediatePath != "" && cc.Verbose {
		fmt.Fprintf(cc.Stderr, "DOT document kept at %s\n", summary.IntermediatePath)
	}
	fmt.Fprintf(cc.Stdout, msgSuccess+"\n", summary.OutputPath)
	return nil
}
