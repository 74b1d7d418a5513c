package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/commitgraph-go/config"
	"github.com/masmgr/commitgraph-go/internal/git"
	"github.com/masmgr/commitgraph-go/internal/pipeline"
	"github.com/masmgr/commitgraph-go/internal/render"
)

// progressInterval is how many commits pass between verbose progress lines.
const progressInterval = 500

// CommandContext holds common state for command execution.
// It merges the configuration file with the flags given on the command line.
type CommandContext struct {
	Config  *config.Config
	Options pipeline.Options
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewCommandContext loads configuration and resolves the history options.
// Flags override configuration values.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	backend, err := git.ParseBackend(stringOption(c, "backend", cfg.History.Backend))
	if err != nil {
		return nil, err
	}
	renameDetect, err := git.ParseRenameDetect(stringOption(c, "rename-detect", cfg.History.RenameDetect))
	if err != nil {
		return nil, err
	}

	cc := &CommandContext{
		Config:  cfg,
		Verbose: boolOption(c, "verbose", false),
		Stdout:  writerOr(c.App.Writer, os.Stdout),
		Stderr:  writerOr(c.App.ErrWriter, os.Stderr),
	}

	cc.Options = pipeline.Options{
		RepoPath: stringOption(c, "repo-path", ""),
		Filename: stringOption(c, "filename", ""),
		Glob:     boolOption(c, "glob", cfg.History.Glob),
		Backend:  backend,
		Read: git.ReadOptions{
			Branch:       stringOption(c, "branch", cfg.History.Branch),
			All:          boolOption(c, "all", cfg.History.All),
			RenameDetect: renameDetect,
		},
	}
	if cc.Verbose {
		cc.Options.Read.OnProgress = cc.reportProgress
	}

	if err := requireFlag("repo-path", cc.Options.RepoPath); err != nil {
		return nil, err
	}
	if err := requireFlag("filename", cc.Options.Filename); err != nil {
		return nil, err
	}

	return cc, nil
}

// RenderDependencies resolves the renderer settings and the output path.
func (cc *CommandContext) RenderDependencies(c *cli.Context) (pipeline.Dependencies, error) {
	cfg := cc.Config.Render

	visualizer := stringOption(c, "graph-visualizer-path", cfg.VisualizerPath)
	if err := requireFlag("graph-visualizer-path", visualizer); err != nil {
		return pipeline.Dependencies{}, err
	}
	cc.Options.OutputPath = stringOption(c, "output-path", "")
	if err := requireFlag("output-path", cc.Options.OutputPath); err != nil {
		return pipeline.Dependencies{}, err
	}

	timeout := cfg.Timeout()
	if ctx := flagContext(c, "timeout"); ctx != nil {
		timeout = ctx.Duration("timeout")
	}
	if timeout < 0 {
		return pipeline.Dependencies{}, fmt.Errorf("invalid timeout: %s", timeout)
	}

	backend := render.NewExecBackend(visualizer, stringOption(c, "format", cfg.Format))
	renderer := render.NewRenderer(backend, render.Options{
		IntermediatePath: stringOption(c, "intermediate-path", cfg.IntermediatePath),
		KeepIntermediate: boolOption(c, "keep-intermediate", cfg.KeepIntermediate),
		Timeout:          timeout,
	})

	return pipeline.Dependencies{Renderer: renderer}, nil
}

// Scanning prints the banner shown before history is read in verbose mode.
func (cc *CommandContext) Scanning() {
	if !cc.Verbose {
		return
	}
	color.New(color.FgGreen).Fprintf(cc.Stderr, "Scanning %s for %s\n", cc.Options.RepoPath, cc.Options.Filename)
}

// Completed prints elapsed time in verbose mode.
func (cc *CommandContext) Completed(start time.Time) {
	if !cc.Verbose {
		return
	}
	fmt.Fprintf(cc.Stderr, "Completed in %s\n", time.Since(start).Round(time.Millisecond))
}

func (cc *CommandContext) reportProgress(n int) {
	if n%progressInterval == 0 {
		color.New(color.FgYellow).Fprintf(cc.Stderr, "Read %d commits\n", n)
	}
}

// loadConfig loads configuration from file or defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(stringOption(c, "config", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

var errMissingFlag = errors.New("missing required flag")

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: --%s", errMissingFlag, name)
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
