package check

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/orql/scanner"
)

// ReportFunc receives the issues of a re-checked file.
type ReportFunc func(filename string, issues []Issue)

// Watcher re-checks query files when they are written or created.
type Watcher struct {
	watcher  *fsnotify.Watcher
	checker  Checker
	match    *scanner.Scanner
	report   ReportFunc
	logger   *zap.Logger
	debounce time.Duration

	mutex   sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher. A nil report logs the issues instead.
func NewWatcher(checker Checker, extensions []string, report ReportFunc, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	w := &Watcher{
		watcher:  fw,
		checker:  checker,
		match:    scanner.New("", extensions...),
		report:   report,
		logger:   logger,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
	}
	if w.report == nil {
		w.report = w.logIssues
	}
	return w, nil
}

// SetDebounce sets how long a file must stay unchanged before it is checked.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.debounce = d
}

// Add watches dir and all of its subdirectories.
func (w *Watcher) Add(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Run handles file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopPending()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.match.Match(event.Name) {
		return
	}

	// collapse bursts of writes into one check
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if timer, ok := w.pending[event.Name]; ok {
		timer.Stop()
	}
	name := event.Name
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mutex.Lock()
		delete(w.pending, name)
		w.mutex.Unlock()
		w.checkFile(name)
	})
}

func (w *Watcher) checkFile(filename string) {
	issues, err := w.checker.CheckFile(filename)
	if err != nil {
		w.logger.Error("Error checking file", zap.String("file", filename), zap.Error(err))
		return
	}
	w.report(filename, issues)
}

func (w *Watcher) stopPending() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for name, timer := range w.pending {
		timer.Stop()
		delete(w.pending, name)
	}
}

func (w *Watcher) logIssues(filename string, issues []Issue) {
	if len(issues) == 0 {
		w.logger.Info("no issues found", zap.String("file", filename))
		return
	}
	w.logger.Info("found issues", zap.String("file", filename), zap.Int("count", len(issues)))
	for _, issue := range issues {
		w.logger.Info(issue.Message,
			zap.String("rule", issue.Rule),
			zap.Int("line", issue.Line),
			zap.Int("column", issue.Column))
	}
}
