// Package filesystem provides a connector over a local directory of policy PDFs.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is reported.
const DefaultDebounce = 500 * time.Millisecond

// HandlerFunc is called once per settled PDF path.
type HandlerFunc func(ctx context.Context, path string) error

// Connector enumerates and watches PDFs under a root directory.
// Hidden files and directories are skipped.
type Connector struct {
	rootPath string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a connector rooted at rootPath.
func New(rootPath string) *Connector {
	return &Connector{
		rootPath: rootPath,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
	}
}

// WithDebounce overrides the quiet period used by Watch.
func (c *Connector) WithDebounce(d time.Duration) *Connector {
	c.debounce = d
	return c
}

// RootPath returns the watched directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// ListPDFs walks the root directory and returns every visible PDF, sorted.
func (c *Connector) ListPDFs() ([]string, error) {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, c.rootPath)
	}

	var paths []string
	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path != c.rootPath && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isPDF(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// Watch reports PDFs created or rewritten under the root directory.
// Each path is passed to fn once its writes have settled for the debounce
// period. Handler errors are logged and do not stop the watch.
// Watch blocks until ctx is cancelled.
func (c *Connector) Watch(ctx context.Context, fn HandlerFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := c.addRecursive(watcher, c.rootPath); err != nil {
		return err
	}
	logger.Info("Watching %s for PDFs", c.rootPath)

	tick := c.debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !c.hidden(event.Name) {
					if err := c.addRecursive(watcher, event.Name); err != nil {
						logger.Warn("watching %s: %v", event.Name, err)
					}
					continue
				}
			}
			if path, ok := c.handleFsEvent(event); ok {
				c.mark(path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				logger.Warn("watch event overflow in %s", c.rootPath)
				continue
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for _, path := range c.settled(now) {
				if err := fn(ctx, path); err != nil {
					logger.Error(err, "handling %s", path)
				}
			}
		}
	}
}

// addRecursive adds a directory and its visible subdirectories to the watcher.
func (c *Connector) addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// handleFsEvent returns the PDF path an event refers to, if it should be
// re-indexed. Removals and renames are ignored: indexed chunks are append-only.
func (c *Connector) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if c.hidden(event.Name) || !isPDF(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

func (c *Connector) mark(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[path] = time.Now()
}

// settled removes and returns the pending paths quiet for at least the debounce period.
func (c *Connector) settled(now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ready []string
	for path, changed := range c.pending {
		if now.Sub(changed) >= c.debounce {
			ready = append(ready, path)
			delete(c.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// hidden reports whether path is hidden below the root directory.
// The root itself may live under a dot directory such as ~/.supportdesk.
func (c *Connector) hidden(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil {
		return isHidden(path)
	}
	return isHidden(rel)
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// isHidden reports whether any path component starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
