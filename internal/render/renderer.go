package render

import (
	"context"
	"fmt"
	"os"
	"time"
)

// LegacyIntermediateFile is the fixed document name used by earlier versions
// of the tool. Writing to it from concurrent runs in one directory races.
const LegacyIntermediateFile = "graph.dot"

// Options controls where the intermediate document lives and how long the
// renderer may run.
type Options struct {
	// IntermediatePath, when set, is a fixed file the document is written
	// to and left behind. Otherwise a unique temp file is used.
	IntermediatePath string
	// KeepIntermediate keeps the temp file instead of removing it.
	KeepIntermediate bool
	// TempDir is the directory for the temp file; empty means os.TempDir.
	TempDir string
	// Timeout bounds the renderer run; zero waits indefinitely.
	Timeout time.Duration
}

// Result reports the intermediate document of a render.
type Result struct {
	IntermediatePath string
	Kept             bool
}

// Renderer writes the DOT document to disk and hands it to a Backend.
type Renderer struct {
	backend Backend
	opts    Options
}

// NewRenderer creates a renderer.
func NewRenderer(backend Backend, opts Options) *Renderer {
	return &Renderer{backend: backend, opts: opts}
}

// Render writes document verbatim to the intermediate file and runs the
// backend to produce outputPath. The output file is neither checked nor
// modified here.
func (r *Renderer) Render(ctx context.Context, document, outputPath string) (res *Result, err error) {
	docPath, kept, err := r.writeIntermediate(document)
	if err != nil {
		return nil, err
	}
	if !kept {
		defer func() {
			if rmErr := os.Remove(docPath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
				err = fmt.Errorf("remove intermediate document: %w", rmErr)
			}
		}()
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	if err := r.backend.Render(ctx, docPath, outputPath); err != nil {
		return nil, err
	}

	res = &Result{Kept: kept}
	if kept {
		res.IntermediatePath = docPath
	}
	return res, nil
}

func (r *Renderer) writeIntermediate(document string) (path string, kept bool, err error) {
	if r.opts.IntermediatePath != "" {
		if err := os.WriteFile(r.opts.IntermediatePath, []byte(document), 0o644); err != nil {
			return "", false, fmt.Errorf("write intermediate document: %w", err)
		}
		return r.opts.IntermediatePath, true, nil
	}

	f, err := os.CreateTemp(r.opts.TempDir, "commitgraph-*.dot")
	if err != nil {
		return "", false, fmt.Errorf("create intermediate document: %w", err)
	}
	if _, err := f.WriteString(document); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", false, fmt.Errorf("write intermediate document: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", false, fmt.Errorf("write intermediate document: %w", err)
	}
	return f.Name(), r.opts.KeepIntermediate, nil
}
