package capture

import (
	"errors"
	"image"
)

// ErrNoBackend is returned when no capture backend can be used
var ErrNoBackend = errors.New("no capture backend available")

// Backend names accepted by NewRouter
const (
	BackendAuto       = "auto"
	BackendScreenshot = "screenshot"
	BackendX11        = "x11"
)

// Backends lists the valid backend names
var Backends = []string{BackendAuto, BackendScreenshot, BackendX11}

// Capturer defines the interface for screen capture backends
type Capturer interface {
	// Start initializes the capturer and any required resources
	Start() error

	// Stop releases resources
	Stop() error

	// CaptureScreen captures the full configured display
	CaptureScreen() (*image.RGBA, error)

	// Name returns a human-readable name for this capturer
	Name() string

	// IsAvailable checks if this capturer can be used in the current environment
	IsAvailable() bool
}
