package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/internal/output"
	"github.com/masmgr/commitgraph-go/internal/pipeline"
)

// EdgesCmd returns the edges command, which reports the graph without
// invoking the renderer.
func EdgesCmd() *cli.Command {
	flags := append(historyFlags(),
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format (console, json, csv, markdown, ci, dot)",
			Value: string(output.FormatConsole),
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of commits to list (0 lists all; edges are never limited)",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:    "edges",
		Aliases: []string{"e"},
		Usage:   "List the commits touching a file and their parent -> child edges",
		Flags:   flags,
		Action:  edgesAction,
	}
}

func edgesAction(c *cli.Context) error {
	format, ok := output.ParseFormat(c.String("format"))
	if !ok {
		return cli.Exit(fmt.Sprintf("Error: invalid format: %s", c.String("format")), 1)
	}

	cc, err := NewCommandContext(c)
	if err != nil {
		return exitError(err, c.App.ErrWriter, false)
	}

	start := time.Now()
	cc.Scanning()
	summary, err := pipeline.Build(c.Context, cc.Options, pipeline.Dependencies{})
	if err != nil {
		return exitError(err, cc.Stderr, cc.Verbose)
	}
	cc.Completed(start)

	report := &output.EdgeReport{
		RepoPath:    summary.RepoPath,
		Filename:    cc.Options.Filename,
		Glob:        cc.Options.Glob,
		GeneratedAt: time.Now(),
		Commits:     summary.Selection,
		Edges:       summary.Edges,
	}

	writer := output.NewEdgeReportWriter(format)
	opts := output.OutputOptions{
		Format:     format,
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
		Writer:     cc.Stdout,
	}
	if err := writer.Write(report, opts); err != nil {
		return exitError(fmt.Errorf("failed to write report: %w", err), cc.Stderr, cc.Verbose)
	}
	return nil
}
