// Where: cli/internal/infra/watch/watcher.go
// What: File watcher that re-runs a callback when watched files change.
// Why: Regenerate function.json as soon as a build replaces the assembly.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const defaultDebounce = 200 * time.Millisecond

// FileWatcher watches the directories of a set of files. Builds replace
// outputs by rename, so the directory is watched instead of the file.
type FileWatcher struct {
	Files    []string
	Debounce time.Duration
	Logger   ports.Logger
	OnChange func(changed []string)
}

// Run blocks until ctx is done, invoking OnChange after each settled burst of writes.
func (fw *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, file := range fw.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	debouncer := newDebouncer(fw.debounce(), fw.OnChange)
	defer debouncer.stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !targets[name] {
				continue
			}
			debouncer.add(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if fw.Logger != nil {
				fw.Logger.Warn(fmt.Sprintf("watch error: %v", err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (fw *FileWatcher) debounce() time.Duration {
	if fw.Debounce > 0 {
		return fw.Debounce
	}
	return defaultDebounce
}

// debouncer collects changed files and flushes them once no event arrived for delay.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	pending  map[string]bool
	timer    *time.Timer
	callback func([]string)
}

func newDebouncer(delay time.Duration, callback func([]string)) *debouncer {
	return &debouncer{delay: delay, pending: map[string]bool{}, callback: callback}
}

func (d *debouncer) add(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[name] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	files := make([]string, 0, len(d.pending))
	for name := range d.pending {
		files = append(files, name)
	}
	d.pending = map[string]bool{}
	d.mu.Unlock()
	if len(files) > 0 && d.callback != nil {
		d.callback(files)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
