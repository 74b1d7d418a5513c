// Package watch re-runs a handler whenever a repository's refs move.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Handler is invoked once per settled burst of repository changes.
type Handler func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Immediate runs the handler once before the first change arrives.
	Immediate bool
	// OnChange is told about every relevant file event.
	OnChange func(path string)
	// OnError receives handler and watcher errors; watching continues.
	OnError func(err error)
}

// Watcher observes a repository's git directory.
type Watcher struct {
	gitDir  string
	handler Handler
	opts    Options
}

// New resolves the git directory of repoPath and prepares a watcher.
func New(repoPath string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}
	gitDir, err := GitDir(repoPath)
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{gitDir: gitDir, handler: handler, opts: opts}, nil
}

// GitDir returns the directory holding HEAD and refs for repoPath. Linked
// worktrees and separate git dirs are resolved through go-git.
func GitDir(repoPath string) (string, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("watch: repository is not stored on disk")
	}
	return storage.Filesystem().Root(), nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error only when the watch could not be set up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addDirs(fw); err != nil {
		return err
	}

	if w.opts.Immediate {
		w.trigger(ctx)
	}

	return w.loop(ctx, fw.Events, fw.Errors, func(dir string) {
		if err := fw.Add(dir); err != nil {
			w.reportError(fmt.Errorf("watch %s: %w", dir, err))
		}
	})
}

// addDirs watches the git dir itself (HEAD, packed-refs) and every
// directory below refs/, since fsnotify is not recursive.
func (w *Watcher) addDirs(fw *fsnotify.Watcher) error {
	if err := fw.Add(w.gitDir); err != nil {
		return fmt.Errorf("watch %s: %w", w.gitDir, err)
	}
	refs := filepath.Join(w.gitDir, "refs")
	err := filepath.WalkDir(refs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("watch %s: %w", refs, err)
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, addDir func(string)) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && w.underRefs(event.Name) {
				addDir(event.Name)
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			if w.opts.OnChange != nil {
				w.opts.OnChange(event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.trigger(ctx)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.reportError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

func (w *Watcher) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.handler(ctx); err != nil {
		w.reportError(err)
	}
}

func (w *Watcher) reportError(err error) {
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
}

func (w *Watcher) underRefs(path string) bool {
	rel, err := filepath.Rel(filepath.Join(w.gitDir, "refs"), path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	path := filepath.ToSlash(event.Name)

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return true
	}
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if strings.Contains(path, "/logs/") {
		return true
	}
	if base == "config" || base == "index" {
		return true
	}
	if strings.Contains(path, "/objects/") {
		return true
	}

	return false
}
