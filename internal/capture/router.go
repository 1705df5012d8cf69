package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/bryanchriswhite/tortor/internal/logger"
)

// Router picks a capture backend and forwards captures to it
type Router struct {
	backend string
	display int

	// constructors are swapped in tests
	newScreenshot func(display int) Capturer
	newX11        func() (Capturer, error)

	mu      sync.RWMutex
	active  Capturer
	started bool
}

// NewRouter creates a router for the named backend
func NewRouter(backend string, display int) (*Router, error) {
	switch backend {
	case BackendAuto, BackendScreenshot, BackendX11:
	case "":
		backend = BackendAuto
	default:
		return nil, fmt.Errorf("unknown capture backend %q", backend)
	}

	return &Router{
		backend: backend,
		display: display,
		newScreenshot: func(display int) Capturer {
			return NewScreenshotCapturer(display)
		},
		newX11: func() (Capturer, error) {
			return NewX11Capturer()
		},
	}, nil
}

// Start initializes the first usable backend
func (r *Router) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	log := logger.WithComponent("capture-router")

	if r.backend == BackendAuto || r.backend == BackendScreenshot {
		sc := r.newScreenshot(r.display)
		if err := startCapturer(sc); err != nil {
			log.Warn().Err(err).Msg("Screenshot capturer not available")
		} else {
			r.active = sc
		}
	}

	if r.active == nil && (r.backend == BackendAuto || r.backend == BackendX11) {
		x11, err := r.newX11()
		if err != nil {
			log.Warn().Err(err).Msg("X11 capturer not available")
		} else if err := startCapturer(x11); err != nil {
			log.Warn().Err(err).Msg("Failed to start X11 capturer")
			x11.Stop()
		} else {
			r.active = x11
		}
	}

	if r.active == nil {
		return fmt.Errorf("%w (backend %q)", ErrNoBackend, r.backend)
	}

	log.Info().Str("backend", r.active.Name()).Msg("Capture backend initialized")
	r.started = true
	return nil
}

func startCapturer(c Capturer) error {
	if !c.IsAvailable() {
		return fmt.Errorf("%s capturer reports unavailable", c.Name())
	}
	return c.Start()
}

// Stop stops the active backend
func (r *Router) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.active != nil {
		err = r.active.Stop()
		r.active = nil
	}
	r.started = false
	return err
}

// CaptureScreen captures through the active backend
func (r *Router) CaptureScreen() (*image.RGBA, error) {
	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()

	if active == nil {
		return nil, fmt.Errorf("capture router not started: %w", ErrNoBackend)
	}
	return active.CaptureScreen()
}

// Name returns the active backend name, or the requested one before Start
func (r *Router) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.active != nil {
		return r.active.Name()
	}
	return r.backend
}

// IsAvailable reports whether a backend has been started
func (r *Router) IsAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active != nil
}
