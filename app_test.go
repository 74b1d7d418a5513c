package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestHelperProcess runs main in a child process so exit codes can be observed.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("COMMITGRAPH_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	os.Args = append([]string{"commitgraph"}, args...)
	main()
}

func runMain(t *testing.T, args ...string) (int, string) {
	t.Helper()

	c := exec.Command(os.Args[0], append([]string{"-test.run=TestHelperProcess", "--"}, args...)...)
	c.Env = append(os.Environ(), "COMMITGRAPH_HELPER_PROCESS=1", "HOME="+t.TempDir())
	out, err := c.Output()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, string(out)
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), string(out)
	default:
		t.Fatalf("running helper process: %v", err)
		return -1, ""
	}
}

func TestMain_InvalidRepositoryExitsOne(t *testing.T) {
	code, out := runMain(t,
		"--repo-path", filepath.Join(t.TempDir(), "missing"),
		"--graph-visualizer-path", "dot",
		"--output-path", filepath.Join(t.TempDir(), "out.png"),
		"--filename", "a.go",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1 (output %q)", code, out)
	}
	if !strings.Contains(out, "The specified repository path does not exist.") {
		t.Errorf("stdout = %q", out)
	}
}

func TestMain_HelpExitsZero(t *testing.T) {
	code, out := runMain(t, "--help")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "--graph-visualizer-path") {
		t.Errorf("help output = %q", out)
	}
}
