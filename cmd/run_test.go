package cmd

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/masmgr/commitgraph-go/config"
	"github.com/masmgr/commitgraph-go/internal/testutil"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeRenderer writes a script that copies the DOT document to the -o path,
// or fails with the given stderr when fail is set.
func fakeRenderer(t *testing.T, fail string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script renderers are not supported on windows")
	}
	body := "cp \"$2\" \"$4\"\n"
	if fail != "" {
		body = "echo '" + fail + "' >&2\nexit 1\n"
	}
	path := filepath.Join(t.TempDir(), "fake-dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := Run(append([]string{"commitgraph"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	repo := testutil.NewRepo(t)
	h := testutil.BuildMergeHistory(repo)
	out := filepath.Join(t.TempDir(), "graph.png")

	code, stdout, stderr := runCLI(t,
		"--repo-path", repo.Dir,
		"--graph-visualizer-path", fakeRenderer(t, ""),
		"--output-path", out,
		"--filename", "other.txt",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stdout = %q, stderr = %q", code, stdout, stderr)
	}
	if want := "Commit graph successfully created and saved to " + out + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "digraph G {\n  \"" + h.Merge + "\" -> \"" + h.Unrelated + "\";\n}\n"
	if string(data) != want {
		t.Errorf("renderer received %q, want %q", data, want)
	}
}

func TestRun_RenderSubcommand(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)
	out := filepath.Join(t.TempDir(), "graph.png")

	code, stdout, _ := runCLI(t, "render",
		"-r", repo.Dir, "-g", fakeRenderer(t, ""), "-o", out, "-f", "file.txt")
	if code != 0 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
	if !strings.Contains(stdout, "successfully created") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_InvalidRepository(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	out := filepath.Join(t.TempDir(), "graph.png")

	code, stdout, _ := runCLI(t,
		"--repo-path", missing,
		"--graph-visualizer-path", "dot",
		"--output-path", out,
		"--filename", "a.go",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "The specified repository path does not exist.\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output should not be created")
	}
}

func TestRun_NoMatchingHistory(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)

	code, stdout, _ := runCLI(t,
		"--repo-path", repo.Dir,
		"--graph-visualizer-path", fakeRenderer(t, ""),
		"--output-path", filepath.Join(t.TempDir(), "graph.png"),
		"--filename", "never.txt",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "No commits touch the specified file.\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_RenderFailure(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)

	code, stdout, stderr := runCLI(t,
		"--repo-path", repo.Dir,
		"--graph-visualizer-path", fakeRenderer(t, "syntax error"),
		"--output-path", filepath.Join(t.TempDir(), "graph.png"),
		"--filename", "file.txt",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "Failed to create the graph image.\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if strings.Contains(stdout, "successfully") {
		t.Error("success reported despite renderer failure")
	}
	if !strings.Contains(stderr, "syntax error") {
		t.Errorf("stderr = %q, want renderer stderr passed through", stderr)
	}
}

func TestRun_MissingRequiredFlag(t *testing.T) {
	code, stdout, _ := runCLI(t,
		"--repo-path", t.TempDir(),
		"--graph-visualizer-path", "dot",
		"--filename", "a.go",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "missing required flag: --output-path") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_InvalidBackend(t *testing.T) {
	code, stdout, _ := runCLI(t,
		"--repo-path", t.TempDir(),
		"--filename", "a.go",
		"--backend", "svn",
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "invalid backend") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_ConfigSuppliesRenderer(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)
	out := filepath.Join(t.TempDir(), "graph.png")

	cfgPath := filepath.Join(t.TempDir(), "commitgraph.yaml")
	cfg := "render:\n  visualizerPath: " + fakeRenderer(t, "") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code, stdout, _ := runCLI(t,
		"--config", cfgPath,
		"--repo-path", repo.Dir,
		"--output-path", out,
		"--filename", "file.txt",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not rendered: %v", err)
	}
}

func TestRun_EdgesCSVWithGlobalFlags(t *testing.T) {
	repo := testutil.NewRepo(t)
	h := testutil.BuildMergeHistory(repo)
	out := filepath.Join(t.TempDir(), "edges.csv")

	code, stdout, _ := runCLI(t,
		"-r", repo.Dir, "-f", "file.txt",
		"edges", "--format", "csv", "--output", out,
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "parent,child\n" +
		h.Main + "," + h.Merge + "\n" +
		h.Feature + "," + h.Merge + "\n" +
		h.Root + "," + h.Feature + "\n" +
		h.Root + "," + h.Main + "\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", data, want)
	}
}

func TestRun_EdgesDOTMatchesRenderedDocument(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)
	dotOut := filepath.Join(t.TempDir(), "graph.dot")
	pngOut := filepath.Join(t.TempDir(), "graph.png")

	if code, stdout, _ := runCLI(t, "edges", "-r", repo.Dir, "-f", "file.txt", "--format", "dot", "--output", dotOut); code != 0 {
		t.Fatalf("edges exit code = %d, stdout = %q", code, stdout)
	}
	if code, stdout, _ := runCLI(t, "-r", repo.Dir, "-f", "file.txt", "-g", fakeRenderer(t, ""), "-o", pngOut); code != 0 {
		t.Fatalf("render exit code = %d, stdout = %q", code, stdout)
	}

	dot, _ := os.ReadFile(dotOut)
	rendered, _ := os.ReadFile(pngOut)
	if string(dot) != string(rendered) || !strings.HasPrefix(string(dot), "digraph G {\n") {
		t.Errorf("edges dot = %q, rendered document = %q", dot, rendered)
	}
}

func TestRun_EdgesInvalidFormat(t *testing.T) {
	code, stdout, _ := runCLI(t, "edges", "-r", t.TempDir(), "-f", "a.go", "--format", "png")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "invalid format: png") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_NoArgumentsShowsHelp(t *testing.T) {
	code, stdout, _ := runCLI(t)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "commitgraph") || !strings.Contains(stdout, "--repo-path") {
		t.Errorf("help output = %q", stdout)
	}
}

func TestRun_UnknownBranchIsReadError(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)

	for _, backend := range []string{"go-git", "git"} {
		t.Run(backend, func(t *testing.T) {
			if backend == "git" {
				if _, err := exec.LookPath("git"); err != nil {
					t.Skip("git not installed")
				}
			}
			code, stdout, _ := runCLI(t,
				"-r", repo.Dir, "-f", "file.txt",
				"-g", fakeRenderer(t, ""),
				"-o", filepath.Join(t.TempDir(), "graph.png"),
				"--backend", backend,
				"--branch", "no-such-branch",
			)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stdout, "Error:") || !strings.Contains(stdout, "no-such-branch") {
				t.Errorf("stdout = %q, want a read error naming the revision", stdout)
			}
		})
	}
}

func TestRun_EdgesWritesToRunStdout(t *testing.T) {
	repo := testutil.NewRepo(t)
	h := testutil.BuildMergeHistory(repo)

	code, stdout, _ := runCLI(t,
		"-r", repo.Dir, "-f", "other.txt",
		"edges", "--format", "csv",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
	if want := "parent,child\n" + h.Merge + "," + h.Unrelated + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRun_MissingExplicitConfig(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.BuildMergeHistory(repo)
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	code, stdout, _ := runCLI(t,
		"--config", missing,
		"-r", repo.Dir, "-f", "file.txt",
		"-g", fakeRenderer(t, ""),
		"-o", filepath.Join(t.TempDir(), "graph.png"),
	)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "failed to load config") || !strings.Contains(stdout, "absent.yaml") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_InitConfig(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
		force    bool
		wantCode int
	}{
		{name: "Create", wantCode: 0},
		{name: "RefuseOverwrite", existing: true, wantCode: 1},
		{name: "ForceOverwrite", existing: true, force: true, wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "commitgraph.toml")
			if tt.existing {
				if err := os.WriteFile(path, []byte("# keep\n"), 0o644); err != nil {
					t.Fatalf("WriteFile: %v", err)
				}
			}
			args := []string{"init-config", "--output", path}
			if tt.force {
				args = append(args, "--force")
			}

			code, stdout, _ := runCLI(t, args...)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d, stdout = %q", code, tt.wantCode, stdout)
			}

			if tt.wantCode != 0 {
				if !strings.Contains(stdout, "already exists") {
					t.Errorf("stdout = %q", stdout)
				}
				data, _ := os.ReadFile(path)
				if string(data) != "# keep\n" {
					t.Errorf("existing file was modified: %q", data)
				}
				return
			}

			if want := "Wrote default configuration to " + path + "\n"; stdout != want {
				t.Errorf("stdout = %q, want %q", stdout, want)
			}
			cfg, err := config.LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if !reflect.DeepEqual(cfg, config.DefaultConfig()) {
				t.Errorf("written config = %+v, want defaults", cfg)
			}
		})
	}
}
