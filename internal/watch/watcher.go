package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HendryAvila/clarify/internal/analysis"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	// DefaultDebounce is the quiet period before a saved file is analyzed.
	DefaultDebounce = 500 * time.Millisecond

	// MaxFileSize caps how much of a file is read for analysis.
	MaxFileSize = 1 << 20
)

// ErrFileTooLarge is reported for files over MaxFileSize.
var ErrFileTooLarge = errors.New("watch: file too large")

// Analyzer is the analysis policy run on each saved file.
type Analyzer interface {
	Analyze(ctx context.Context, text string) analysis.Result
}

// Report is the outcome of analyzing one saved file.
type Report struct {
	Path   string
	Result analysis.Result
	Err    error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Zero keeps DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter sets the include/exclude patterns applied to changed files.
func WithFilter(f *PatternFilter) Option {
	return func(w *Watcher) {
		if f != nil {
			w.filter = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher analyzes files when they are created or written.
type Watcher struct {
	analyzer Analyzer
	onReport func(Report)
	debounce time.Duration
	filter   *PatternFilter
	logger   *zap.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	files map[string]bool // explicitly watched files; empty means any file
}

// New creates a watcher that passes every report to onReport.
func New(analyzer Analyzer, onReport func(Report), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		analyzer: analyzer,
		onReport: onReport,
		debounce: DefaultDebounce,
		filter:   NewPatternFilter(nil, DefaultExclude),
		logger:   zap.NewNop(),
		fsw:      fsw,
		files:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches paths. A directory is watched recursively; a file is watched
// through its parent directory and only its own changes are analyzed.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if info.IsDir() {
			if err := w.addRecursive(abs); err != nil {
				return err
			}
			continue
		}

		w.mu.Lock()
		w.files[abs] = true
		w.mu.Unlock()
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", abs, err)
		}
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run starts the event loop. It blocks until ctx is cancelled and closes
// the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	done := make(chan struct{})
	defer close(done)

	due := make(chan string)
	debouncer := NewDebouncer(w.debounce, func(path string) {
		select {
		case due <- path:
		case <-done:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-due:
			w.analyze(ctx, path)

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if event.Op.Has(fsnotify.Create) && w.watchingDirs() && !skipDir(info.Name()) {
					_ = w.addRecursive(event.Name)
				}
				continue
			}
			if !w.wants(event.Name) {
				continue
			}
			debouncer.Trigger(event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: watcher error: %w", err)
		}
	}
}

func (w *Watcher) watchingDirs() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files) == 0
}

func (w *Watcher) wants(path string) bool {
	w.mu.Lock()
	explicit := len(w.files) > 0
	listed := w.files[path]
	w.mu.Unlock()

	if explicit && !listed {
		return false
	}
	return w.filter.Matches(path)
}

func (w *Watcher) analyze(ctx context.Context, path string) {
	report := Report{Path: path}

	text, err := readText(path)
	if err != nil {
		report.Err = err
		w.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
	} else {
		report.Result = w.analyzer.Analyze(ctx, text)
		w.logger.Debug("analyzed file",
			zap.String("path", path),
			zap.String("source", string(report.Result.Source)),
			zap.Int("findings", len(report.Result.Findings)),
		)
	}

	if w.onReport != nil {
		w.onReport(report)
	}
}

func readText(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("watch: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("watch: read %s: %w", path, err)
	}
	return string(data), nil
}
