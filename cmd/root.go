package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application. Without a subcommand it renders the graph.
func App() *cli.App {
	return &cli.App{
		Name:      "commitgraph",
		Usage:     "Render the commit graph of a single file in a Git repository",
		UsageText: "commitgraph --repo-path DIR --graph-visualizer-path DOT --output-path FILE --filename PATH",
		Version:   "1.0.0",
		Commands: []*cli.Command{
			RenderCmd(),
			EdgesCmd(),
			WatchCmd(),
			InitConfigCmd(),
		},
		Flags:  renderFlags(),
		Action: renderAction,
	}
}

// Flags shared by every command that reads history.
func historyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo-path",
			Aliases: []string{"r"},
			Usage:   "Path to the Git repository",
		},
		&cli.StringFlag{
			Name:    "filename",
			Aliases: []string{"f"},
			Usage:   "File path within the repository whose history is graphed",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file (.json, .yaml, .yml, .toml)",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Revision to walk from (default: HEAD)",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Walk every reference instead of a single revision",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History backend (go-git, git)",
		},
		&cli.StringFlag{
			Name:  "rename-detect",
			Usage: "Rename detection mode (off, simple, aggressive)",
		},
		&cli.BoolFlag{
			Name:  "glob",
			Usage: "Treat --filename as a glob pattern (supports **)",
		},
		// -v belongs to the built-in version flag.
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Report progress on stderr",
		},
	}
}

// Flags for commands that invoke the renderer.
func renderFlags() []cli.Flag {
	return append(historyFlags(),
		&cli.StringFlag{
			Name:    "graph-visualizer-path",
			Aliases: []string{"g"},
			Usage:   "Path to the Graphviz-compatible renderer executable",
		},
		&cli.StringFlag{
			Name:    "output-path",
			Aliases: []string{"o"},
			Usage:   "Path of the image to create",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"T"},
			Usage:   "Renderer output type (default: png)",
		},
		&cli.StringFlag{
			Name:  "intermediate-path",
			Usage: "Write the DOT document to this fixed file instead of a temp file",
		},
		&cli.BoolFlag{
			Name:  "keep-intermediate",
			Usage: "Keep the temporary DOT document after rendering",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort the renderer after this long (0 waits indefinitely)",
		},
	)
}

// flagContext returns the nearest context in which name was given on the
// command line, so global flags placed before a subcommand still apply.
func flagContext(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return nil
}

func stringOption(c *cli.Context, name, fallback string) string {
	if ctx := flagContext(c, name); ctx != nil {
		return ctx.String(name)
	}
	return fallback
}

func boolOption(c *cli.Context, name string, fallback bool) bool {
	if ctx := flagContext(c, name); ctx != nil {
		return ctx.Bool(name)
	}
	return fallback
}

// Run executes the CLI application and returns the process exit code.
// Diagnostics are written to stdout in red.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(ctx, args)
	if err == nil {
		return 0
	}

	color.New(color.FgRed).Fprintln(stdout, err.Error())

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) && exitErr.ExitCode() != 0 {
		return exitErr.ExitCode()
	}
	return 1
}
