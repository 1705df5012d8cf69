// Package worker runs the background capture loop: one screenshot per
// interval until paused or stopped, with a counter that survives pauses.
//
// Control methods (Initialize, PauseOrResume, Exit) are called from the
// hotkey listener goroutine while the loop runs on its own goroutine. The
// loop blocks only in a single select on the stop channel and the interval
// timer, so Stop interrupts a wait immediately; a capture already in flight
// runs to completion first.
package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/bryanchriswhite/tortor/internal/notify"
	"github.com/sourcegraph/conc"
)

// DefaultInterval is the time between two captures
const DefaultInterval = 3500 * time.Millisecond

// DefaultOutputDir is where screenshots go when no directory is configured
const DefaultOutputDir = "./screenshots/"

// CaptureSink writes a full-screen PNG to path, overwriting it if present
type CaptureSink interface {
	Capture(path string) error
}

// DirectorySink creates a directory and its parents; existing directories are fine
type DirectorySink interface {
	EnsureDir(path string) error
}

// Options configures a Worker. Zero values get defaults.
type Options struct {
	OutputDir string
	Interval  time.Duration
	Notifier  notify.Notifier

	// PauseKey and QuitKey label the shortcuts in the pause message
	PauseKey string
	QuitKey  string

	// Now is the clock used for file names
	Now func() time.Time

	// Exit terminates the process after the final summary
	Exit func(code int)
}

func (o *Options) setDefaults() {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Notifier == nil {
		o.Notifier = notify.Discard{}
	}
	if o.PauseKey == "" {
		o.PauseKey = "<alt>+p"
	}
	if o.QuitKey == "" {
		o.QuitKey = "<alt>+q"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Exit == nil {
		o.Exit = os.Exit
	}
}

// Worker owns the capture loop and its state
type Worker struct {
	capture CaptureSink
	dirs    DirectorySink
	opts    Options

	mu      sync.Mutex
	state   State
	started bool
	err     error

	// saved is written only by the loop goroutine
	saved atomic.Uint64

	stop     chan struct{}
	done     chan struct{}
	wg       conc.WaitGroup
	stopOnce sync.Once
}

// New creates a worker in StateCreated. Nothing runs until Initialize.
func New(capture CaptureSink, dirs DirectorySink, opts Options) *Worker {
	opts.setDefaults()
	return &Worker{
		capture: capture,
		dirs:    dirs,
		opts:    opts,
		state:   StateCreated,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Initialize creates the output directory and starts the loop. Calling it
// while the loop is running, or after a stop, does nothing.
func (w *Worker) Initialize() error {
	log := logger.WithComponent("worker")

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		log.Info().Str("state", w.state.String()).Msg("Capture worker already started")
		return nil
	}

	w.emit(notify.KindStatus, "Starting program...")

	if err := w.dirs.EnsureDir(w.opts.OutputDir); err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	w.state = StateRunning
	w.started = true
	w.wg.Go(w.loop)

	log.Info().
		Str("output_dir", w.opts.OutputDir).
		Dur("interval", w.opts.Interval).
		Msg("Capture worker started")
	return nil
}

// loop runs on its own goroutine and closes done when it returns
func (w *Worker) loop() {
	var err error
	defer close(w.done)
	defer func() {
		w.mu.Lock()
		w.state = StateStopped
		if err != nil {
			w.err = err
		}
		w.mu.Unlock()
	}()

	err = w.run()
	if err != nil {
		logger.WithComponent("worker").Error().
			Err(err).
			Uint64("saved", w.saved.Load()).
			Msg("Capture loop stopped on error")
	}
}

func (w *Worker) run() error {
	timer := time.NewTimer(w.opts.Interval)
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			return nil
		case <-timer.C:
		}

		switch w.State() {
		case StateStopped:
			return nil
		case StateRunning:
			if err := w.captureAndSave(); err != nil {
				return err
			}
		}

		timer.Reset(w.opts.Interval)
	}
}

// captureAndSave takes one screenshot named after the current time
func (w *Worker) captureAndSave() error {
	name := ScreenshotName(w.opts.Now())
	path := filepath.Join(w.opts.OutputDir, name)

	if err := w.capture.Capture(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	w.saved.Add(1)

	w.emit(notify.KindCapture, fmt.Sprintf("\nSaving screenshot %s\nScreenshot saved on path %s", name, path))
	return nil
}

// PauseOrResume toggles between running and paused. It does nothing before
// Initialize or after a stop.
func (w *Worker) PauseOrResume() {
	w.mu.Lock()
	switch w.state {
	case StateRunning:
		w.state = StatePaused
		w.mu.Unlock()
		w.emit(notify.KindStatus, fmt.Sprintf("\nProgram paused. %s\nPress %s to resume it or %s to quit the program.",
			CountSoFar(w.saved.Load()), w.opts.PauseKey, w.opts.QuitKey))
	case StatePaused:
		w.state = StateRunning
		w.mu.Unlock()
		w.emit(notify.KindStatus, "\nProgram resumed.")
	default:
		state := w.state
		w.mu.Unlock()
		logger.WithComponent("worker").Debug().
			Str("state", state.String()).
			Msg("Pause/resume ignored")
	}
}

// Stop requests a stop and blocks until the loop has exited. It is safe to
// call before Initialize and more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		started := w.started
		if started {
			w.state = StateStopped
		}
		w.mu.Unlock()

		close(w.stop)
		if !started {
			return
		}

		if r := w.wg.WaitAndRecover(); r != nil {
			err := r.AsError()
			logger.WithComponent("worker").Error().
				Err(err).
				Msg("Capture loop panicked")
			w.mu.Lock()
			w.err = err
			w.mu.Unlock()
		}
	})
}

// Exit stops the loop, prints the final summary and terminates the process
// with status 0.
func (w *Worker) Exit() {
	w.Stop()

	if summary := FinalSummary(w.Saved(), w.opts.OutputDir); summary != "" {
		w.emit(notify.KindSummary, "\n"+summary)
	}
	w.emit(notify.KindStatus, "Exiting the program...")

	logger.WithComponent("worker").Info().
		Uint64("saved", w.Saved()).
		Msg("Exiting")
	w.opts.Exit(0)
}

// State returns the current lifecycle state
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Saved returns the number of screenshots saved so far
func (w *Worker) Saved() uint64 {
	return w.saved.Load()
}

// IsRunning reports whether the loop goroutine is alive
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return false
	}

	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Done is closed when the loop exits. It is never closed if the loop never started.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the error that ended the loop, if any
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// OutputDir returns the directory screenshots are written to
func (w *Worker) OutputDir() string {
	return w.opts.OutputDir
}

func (w *Worker) emit(kind notify.Kind, text string) {
	if err := w.opts.Notifier.Notify(notify.Event{Kind: kind, Text: text}); err != nil {
		logger.WithComponent("worker").Warn().
			Err(err).
			Str("kind", kind.String()).
			Msg("Failed to show status message")
	}
}
