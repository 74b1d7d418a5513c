package git

import "fmt"

// Compile-time interface conformance checks.
var (
	_ HistorySource = (*HistoryReader)(nil)
	_ HistorySource = (*CLIHistoryReader)(nil)
)

// Open returns the history source implementing the requested backend.
// An empty backend selects go-git.
func Open(backend Backend, opts ReadOptions) (HistorySource, error) {
	switch backend {
	case "", BackendGoGit:
		return NewHistoryReader(opts)
	case BackendCLI:
		return NewCLIHistoryReader(opts)
	default:
		return nil, fmt.Errorf("unknown history backend %q (expected %q or %q)", backend, BackendGoGit, BackendCLI)
	}
}

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "go-git", "gogit":
		return BackendGoGit, nil
	case "git", "cli", "git-cli":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("invalid backend: %s (expected go-git or git)", s)
	}
}

// ParseRenameDetect parses a rename detection mode.
func ParseRenameDetect(s string) (RenameDetectMode, error) {
	switch s {
	case "", "off", "false", "none":
		return RenameDetectOff, nil
	case "simple", "exact":
		return RenameDetectSimple, nil
	case "aggressive", "similarity":
		return RenameDetectAggressive, nil
	default:
		return RenameDetectOff, fmt.Errorf("invalid rename-detect mode: %s (expected off, simple, aggressive)", s)
	}
}
