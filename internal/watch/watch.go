// Package watch implements `rpal run --watch`: rerun runFn every time
// path changes on disk, using fsnotify. Events are debounced and queued —
// a change arriving mid-run is remembered and triggers exactly one more
// run once the current one finishes, never a concurrent second run
// against the CSE machine.
package watch

import (
	"fmt"
	"io"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Run watches path and invokes runFn once immediately, then again after
// every subsequent write, until an unrecoverable watcher error occurs or
// the process is interrupted (the caller is expected to run this in the
// foreground and let Ctrl-C terminate the process).
func Run(out io.Writer, path string, runFn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	runFn()

	var pending bool
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending = true
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch: %v\n", err)
		case <-timer.C:
			if pending {
				pending = false
				fmt.Fprintf(out, "--- %s changed, rerunning ---\n", path)
				runFn()
			}
		}
	}
}
