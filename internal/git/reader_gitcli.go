package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

type gitRawEntry struct {
	srcMode filemode.FileMode
	dstMode filemode.FileMode
	status  string // e.g. "M", "A", "D", "R100"
	path    string // destination path (or path for non-renames)
	oldPath string // source path for renames
}

type gitNumstat struct {
	added   int
	deleted int
}

// CLIHistoryReader reads commit history by running the git executable.
type CLIHistoryReader struct {
	opts   ReadOptions
	gitBin string
}

// NewCLIHistoryReader creates a reader backed by the git executable found on PATH.
func NewCLIHistoryReader(opts ReadOptions) (*CLIHistoryReader, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git executable not found: %w", err)
	}
	if _, err := os.Stat(opts.RepoPath); err != nil {
		return nil, err
	}
	return &CLIHistoryReader{opts: opts, gitBin: bin}, nil
}

// logArgs builds the git log invocation. Merge commits are diffed against
// their first parent so their change set matches the go-git reader.
func (r *CLIHistoryReader) logArgs() []string {
	// Each commit header line is prefixed by 0x1e (record separator), then NUL-separated fields,
	// and ends with a newline. This makes the combined --raw/-z and --numstat/-z output
	// reliably parseable as "records" split by 0x1e.
	const format = "%x1e%H%x00%P%x00%cI%x00%an%x00%ae%x00%s%n"

	args := []string{
		"-C", r.opts.RepoPath,
		"log",
		"--no-color",
		"--root",
		"--diff-merges=first-parent",
		"--pretty=format:" + format,
		"--raw", "-z",
		"--numstat",
	}

	switch r.opts.RenameDetect {
	case RenameDetectOff:
		args = append(args, "--no-renames")
	case RenameDetectSimple:
		args = append(args, "-M100%")
	case RenameDetectAggressive:
		args = append(args, fmt.Sprintf("-M%d%%", aggressiveRenameScore))
	}

	if r.opts.All {
		return append(args, "--all")
	}

	rev := strings.TrimSpace(r.opts.Branch)
	if rev != "" && !strings.EqualFold(rev, "HEAD") {
		args = append(args, rev)
	}
	return append(args, "--")
}

// ReadChanges runs git log and parses its output into change sets.
func (r *CLIHistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.gitBin, r.logArgs()...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		// An unborn HEAD has no history to read.
		if strings.Contains(msg, "does not have any commits yet") {
			return nil, nil
		}
		return nil, fmt.Errorf("git log failed: %w: %s", err, msg)
	}

	return parseGitLog(out, r.opts.OnProgress)
}

func parseGitLog(out []byte, onProgress func(int)) ([]CommitChangeSet, error) {
	records := bytes.Split(out, []byte{0x1e})
	results := make([]CommitChangeSet, 0, len(records))
	processed := 0

	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}

		header, body := splitHeaderBody(rec)
		if len(header) == 0 {
			continue
		}

		fields := bytes.SplitN(header, []byte{0x00}, 6)
		if len(fields) < 6 {
			return nil, fmt.Errorf("unexpected git log header format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[2]))
		if err != nil {
			return nil, fmt.Errorf("parse committer date: %w", err)
		}

		rawEntries, pos, err := parseGitRawEntries(body)
		if err != nil {
			return nil, err
		}

		stats, err := parseGitNumstat(body[pos:], rawEntries)
		if err != nil {
			return nil, err
		}

		changes := make([]FileChange, 0, len(rawEntries))
		for i, e := range rawEntries {
			if !e.srcMode.IsFile() && !e.dstMode.IsFile() {
				continue
			}
			if e.path == "" {
				continue
			}

			kind, oldPath := kindFromGitStatus(e.status, e.oldPath)
			changes = append(changes, FileChange{
				Path:         e.path,
				OldPath:      oldPath,
				LinesAdded:   stats[i].added,
				LinesDeleted: stats[i].deleted,
				Kind:         kind,
			})
		}

		results = append(results, CommitChangeSet{
			Commit: CommitInfo{
				SHA:        string(fields[0]),
				ParentSHAs: strings.Fields(string(fields[1])),
				When:       when,
				Author:     AuthorInfo{Name: string(fields[3]), Email: string(fields[4])},
				Message:    string(fields[5]),
			},
			Changes: changes,
		})

		processed++
		if onProgress != nil {
			onProgress(processed)
		}
	}

	return results, nil
}

func splitHeaderBody(rec []byte) (header []byte, body []byte) {
	// The pretty line is followed by '\n', then diff output.
	if idx := bytes.IndexByte(rec, '\n'); idx != -1 {
		return rec[:idx], rec[idx+1:]
	}
	return rec, nil
}

func parseGitRawEntries(body []byte) ([]gitRawEntry, int, error) {
	i := skipNewlines(body, 0)

	entries := make([]gitRawEntry, 0, 16)

	for i < len(body) && body[i] == ':' {
		meta, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing NUL)")
		}

		fields := strings.Fields(string(meta))
		if len(fields) < 5 {
			return nil, 0, fmt.Errorf("unexpected git --raw meta: %q", string(meta))
		}

		srcMode, err := parseGitFileMode(strings.TrimPrefix(fields[0], ":"))
		if err != nil {
			return nil, 0, err
		}
		dstMode, err := parseGitFileMode(fields[1])
		if err != nil {
			return nil, 0, err
		}

		status := fields[len(fields)-1]

		path1, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing path)")
		}

		path := path1
		oldPath := ""
		if len(status) > 0 && (status[0] == 'R' || status[0] == 'C') {
			path2, ok := readStringUntilNUL(body, &i)
			if !ok {
				return nil, 0, fmt.Errorf("unexpected git --raw format (missing rename path)")
			}
			oldPath = path1
			path = path2
		}

		entries = append(entries, gitRawEntry{
			srcMode: srcMode,
			dstMode: dstMode,
			status:  status,
			path:    path,
			oldPath: oldPath,
		})
	}

	return entries, i, nil
}

func parseGitNumstat(body []byte, rawEntries []gitRawEntry) ([]gitNumstat, error) {
	stats := make([]gitNumstat, 0, len(rawEntries))
	i := skipNewlines(body, 0)
	for idx := range rawEntries {
		added, ok, err := readNumstatInt(body, &i, '\t')
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (added)")
		}

		deleted, ok, err := readNumstatInt(body, &i, '\t')
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (deleted)")
		}

		// Consume file name(s) (we use paths from --raw as the source of truth).
		// With -z a rename is written as an empty path followed by old\0new\0.
		name, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, fmt.Errorf("unexpected git --numstat format (path)")
		}
		if s := rawEntries[idx].status; name == "" && len(s) > 0 && (s[0] == 'R' || s[0] == 'C') {
			for n := 0; n < 2; n++ {
				if _, ok := readStringUntilNUL(body, &i); !ok {
					return nil, fmt.Errorf("unexpected git --numstat format (rename path)")
				}
			}
		}

		stats = append(stats, gitNumstat{added: added, deleted: deleted})
	}

	return stats, nil
}

func skipNewlines(b []byte, i int) int {
	for i < len(b) && (b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return i
}

func parseGitFileMode(s string) (filemode.FileMode, error) {
	if s == "" {
		return filemode.Empty, nil
	}
	// Modes are printed as octal (e.g. 100644, 120000, 160000, 000000).
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return filemode.Empty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return filemode.FileMode(v), nil
}

func kindFromGitStatus(status, oldPath string) (ChangeKind, string) {
	if status == "" {
		return ChangeKindModified, ""
	}
	switch status[0] {
	case 'A':
		return ChangeKindAdded, ""
	case 'D':
		return ChangeKindDeleted, ""
	case 'R':
		return ChangeKindRenamed, oldPath
	default:
		return ChangeKindModified, ""
	}
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}

func readStringUntilNUL(b []byte, i *int) (string, bool) {
	raw, ok := readUntilNUL(b, i)
	if !ok {
		return "", false
	}
	return string(raw), true
}

func readNumstatInt(b []byte, i *int, delim byte) (int, bool, error) {
	if *i >= len(b) {
		return 0, false, nil
	}
	j := bytes.IndexByte(b[*i:], delim)
	if j == -1 {
		return 0, false, nil
	}
	field := b[*i : *i+j]
	*i = *i + j + 1

	if len(field) == 1 && field[0] == '-' {
		return 0, true, nil
	}
	n, err := strconv.Atoi(string(field))
	if err != nil {
		return 0, true, fmt.Errorf("parse numstat int %q: %w", string(field), err)
	}
	return n, true, nil
}
