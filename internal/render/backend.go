// Package render turns a DOT document into an image by running an external
// Graphviz-compatible renderer.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultFormat is the renderer output type used when none is configured.
const DefaultFormat = "png"

// ErrRenderFailed is wrapped by every error reported for a renderer run.
var ErrRenderFailed = errors.New("graph renderer failed")

// Error describes a failed renderer invocation.
type Error struct {
	Renderer string
	Args     []string
	ExitCode int    // -1 when the process did not exit normally
	Stderr   string // trimmed renderer diagnostics
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", e.Renderer, strings.Join(e.Args, " "))
	if e.ExitCode >= 0 {
		fmt.Fprintf(&sb, ": exit status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&sb, ": %s", e.Stderr)
	}
	return sb.String()
}

// Unwrap exposes both ErrRenderFailed and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRenderFailed}
	}
	return []error{ErrRenderFailed, e.Err}
}

// Backend renders the document stored at documentPath into outputPath.
type Backend interface {
	Render(ctx context.Context, documentPath, outputPath string) error
}

// ExecBackend runs a Graphviz-style executable as
// `<Path> -T<Format> <documentPath> -o <outputPath>` and waits for it.
type ExecBackend struct {
	Path   string
	Format string
}

// NewExecBackend creates a backend for the renderer at path. An empty
// format selects DefaultFormat.
func NewExecBackend(path, format string) *ExecBackend {
	if format == "" {
		format = DefaultFormat
	}
	return &ExecBackend{Path: path, Format: format}
}

// Args returns the argument vector passed to the renderer, excluding the
// executable itself.
func (b *ExecBackend) Args(documentPath, outputPath string) []string {
	format := b.Format
	if format == "" {
		format = DefaultFormat
	}
	return []string{"-T" + format, documentPath, "-o", outputPath}
}

// Render implements Backend. A non-zero exit status is reported as *Error
// carrying the renderer's stderr.
func (b *ExecBackend) Render(ctx context.Context, documentPath, outputPath string) error {
	args := b.Args(documentPath, outputPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.Path, args...)
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	rerr := &Error{
		Renderer: b.Path,
		Args:     args,
		ExitCode: -1,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		rerr.Err = ctxErr
		return rerr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		rerr.ExitCode = exitErr.ExitCode()
	}
	return rerr
}

// Compile-time interface conformance check.
var _ Backend = (*ExecBackend)(nil)
