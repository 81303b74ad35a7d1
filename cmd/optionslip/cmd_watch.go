package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchDebounce time.Duration

// watchCmd parses slips dropped into a directory
var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Parse PDFs as they are written into a directory",
	Long: `Watches DIR and parses every PDF that is created or rewritten there.
The result is written next to the PDF as NAME.options.json (or .yaml).
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before a changed file is parsed")
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := newSlipWatcher(args[0], watchDebounce)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching for slips", zap.String("dir", args[0]))
	w.Run(cmd.Context())
	return nil
}

// slipWatcher parses PDFs written into a directory. Rapid successive
// writes to the same file are debounced into one parse.
type slipWatcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	// parsed is called after each result file is written
	parsed func(pdf, out string)
}

func newSlipWatcher(dir string, debounce time.Duration) (*slipWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &slipWatcher{
		dir:      dir,
		watcher:  watcher,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		parsed:   func(string, string) {},
	}, nil
}

// Close stops the underlying watcher
func (w *slipWatcher) Close() error {
	return w.watcher.Close()
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *slipWatcher) Run(ctx context.Context) {
	tick := w.debounce / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watch error", zap.Error(err))

		case now := <-ticker.C:
			for _, file := range w.due(now) {
				w.process(file)
			}
		}
	}
}

func (w *slipWatcher) handleEvent(event fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// due removes and returns the files that have been quiet for the debounce
// period.
func (w *slipWatcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for file, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, file)
			delete(w.pending, file)
		}
	}
	return ready
}

func (w *slipWatcher) process(file string) {
	doc := parseFile(file)

	out := strings.TrimSuffix(file, filepath.Ext(file)) + ".options" + extension(settings.Output)
	f, err := os.Create(out)
	if err != nil {
		logger.Error("failed to write result", zap.String("file", out), zap.Error(err))
		return
	}

	err = render(f, settings.Output, doc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.Error("failed to write result", zap.String("file", out), zap.Error(err))
		return
	}
	w.parsed(file, out)
}
