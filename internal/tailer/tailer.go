// Package tailer watches a log directory and incrementally surfaces newly
// appended lines as normalized log records.
//
// One goroutine owns all per-file state (byte offsets and buffered partial
// lines); file-change events are debounced through a settle window so a
// file is never read mid-write.
package tailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackicesecure-space/Valtheron/internal/models"
)

// Publisher receives every record the tailer produces.
type Publisher interface {
	Publish(models.LogRecord)
}

// Options configures a Tailer.
type Options struct {
	// Dir is the watched log directory. It is created if absent.
	Dir string
	// Debounce is the settle window: a file is read only after this much
	// quiet time since its last change event. Zero means read immediately.
	Debounce time.Duration
	// Backlog controls startup behavior for files already present in Dir:
	// true reads their existing content from offset 0 once, false starts
	// from the current end of file.
	Backlog bool
}

// fileState tracks tailing progress for one watched file. The offset is
// monotonically non-decreasing for the lifetime of the watcher and never
// exceeds the file's size at read time.
type fileState struct {
	offset  int64
	pending string
}

// Tailer incrementally reads appended log content and publishes parsed
// records. Construct with New and drive with Run.
type Tailer struct {
	opts      Options
	publisher Publisher
	logger    *slog.Logger

	// Owned by the Run goroutine; timer callbacks only touch the settled
	// channel, never this state.
	states map[string]*fileState
	timers map[string]*time.Timer

	settled chan string
}

// New creates a Tailer publishing to the given publisher.
func New(opts Options, publisher Publisher, logger *slog.Logger) *Tailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tailer{
		opts:      opts,
		publisher: publisher,
		logger:    logger,
		states:    make(map[string]*fileState),
		timers:    make(map[string]*time.Timer),
		settled:   make(chan string, 64),
	}
}

// Run watches the log directory until ctx is cancelled. The only fatal
// errors are failing to create the directory or the watcher itself; every
// per-file failure is logged and isolated.
func (t *Tailer) Run(ctx context.Context) error {
	if err := os.MkdirAll(t.opts.Dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(t.opts.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", t.opts.Dir, err)
	}

	t.scanExisting()

	t.logger.Info("watching log directory",
		"dir", t.opts.Dir,
		"debounce", t.opts.Debounce,
		"backlog", t.opts.Backlog,
	)

	for {
		select {
		case <-ctx.Done():
			for _, timer := range t.timers {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			t.handleEvent(ctx, event)

		case path := <-t.settled:
			t.readFile(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn("watcher error", "error", err)
		}
	}
}

// scanExisting seeds per-file state for files present at startup. With the
// backlog policy on, their content is treated as unseen and read from
// offset 0; otherwise tailing starts at the current end of file.
func (t *Tailer) scanExisting() {
	entries, err := os.ReadDir(t.opts.Dir)
	if err != nil {
		t.logger.Warn("initial scan failed", "dir", t.opts.Dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !tailedFile(entry.Name()) {
			continue
		}
		path := filepath.Join(t.opts.Dir, entry.Name())
		if t.opts.Backlog {
			t.states[path] = &fileState{}
			t.readFile(path)
			continue
		}
		info, err := entry.Info()
		if err != nil {
			t.logger.Warn("stat failed during initial scan", "path", path, "error", err)
			continue
		}
		t.states[path] = &fileState{offset: info.Size()}
	}
}

func (t *Tailer) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if !tailedFile(filepath.Base(path)) {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		delete(t.states, path)
		if timer, ok := t.timers[path]; ok {
			timer.Stop()
			delete(t.timers, path)
		}

	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		t.schedule(ctx, path)
	}
}

// schedule arms (or re-arms) the settle timer for path. A rapid burst of
// writes keeps pushing the deadline back; the file is read once it has been
// quiet for the full debounce window.
func (t *Tailer) schedule(ctx context.Context, path string) {
	if t.opts.Debounce <= 0 {
		t.readFile(path)
		return
	}

	if timer, ok := t.timers[path]; ok {
		timer.Reset(t.opts.Debounce)
		return
	}

	t.timers[path] = time.AfterFunc(t.opts.Debounce, func() {
		select {
		case t.settled <- path:
		case <-ctx.Done():
		}
	})
}

// readFile reads everything appended since the recorded offset, reassembles
// lines across reads and publishes one record per complete line. On a read
// failure the offset stays put so the next change event retries.
func (t *Tailer) readFile(path string) {
	state, ok := t.states[path]
	if !ok {
		state = &fileState{}
		t.states[path] = state
	}

	info, err := os.Stat(path)
	if err != nil {
		t.logger.Warn("stat failed", "path", path, "error", err)
		return
	}
	size := info.Size()

	if size < state.offset {
		// Truncated or rotated in place: start over.
		t.logger.Info("file truncated, resetting offset", "path", path)
		state.offset = 0
		state.pending = ""
	}
	if size == state.offset {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		t.logger.Warn("open failed", "path", path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Seek(state.offset, io.SeekStart); err != nil {
		t.logger.Warn("seek failed", "path", path, "error", err)
		return
	}

	// Read only the bytes that existed at stat time so the recorded offset
	// never runs past the size we measured.
	data, err := io.ReadAll(io.LimitReader(f, size-state.offset))
	if err != nil {
		t.logger.Warn("read failed", "path", path, "error", err)
		return
	}

	state.offset += int64(len(data))
	t.emitLines(state, path, string(data))
}

// emitLines splits freshly read text into complete lines, keeping any
// trailing unterminated text buffered for the next read.
func (t *Tailer) emitLines(state *fileState, path, text string) {
	text = state.pending + text
	lines := strings.Split(text, "\n")
	state.pending = lines[len(lines)-1]

	source := filepath.Base(path)
	now := time.Now()
	for _, line := range lines[:len(lines)-1] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		t.publisher.Publish(models.ParseLine(line, source, now))
	}
}

// tailedFile reports whether the file name has an extension the tailer
// follows.
func tailedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".log", ".json":
		return true
	default:
		return false
	}
}
