package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/masmgr/commitgraph-go/internal/pipeline"
	"github.com/masmgr/commitgraph-go/internal/render"
)

func TestDiagnosticMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "InvalidRepository",
			err:  fmt.Errorf("%w: /nope", pipeline.ErrInvalidRepository),
			want: "The specified repository path does not exist.",
		},
		{
			name: "NoMatchingHistory",
			err:  fmt.Errorf("%w: a.go", pipeline.ErrNoMatchingHistory),
			want: "No commits touch the specified file.",
		},
		{
			name: "RenderFailed",
			err:  &render.Error{Renderer: "dot", ExitCode: 1},
			want: "Failed to create the graph image.",
		},
		{
			name: "Other",
			err:  errors.New("boom"),
			want: "Error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diagnosticMessage(tt.err); got != tt.want {
				t.Fatalf("diagnosticMessage(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRequireFlag(t *testing.T) {
	if err := requireFlag("repo-path", "."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := requireFlag("repo-path", "")
	if !errors.Is(err, errMissingFlag) {
		t.Fatalf("requireFlag(empty) = %v, want errMissingFlag", err)
	}
	if got := err.Error(); got != "missing required flag: --repo-path" {
		t.Fatalf("message = %q", got)
	}
}
