package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Display describes one active monitor
type Display struct {
	Index  int
	Bounds image.Rectangle
}

// Displays returns the active displays in the order the platform reports them
func Displays() []Display {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		displays = append(displays, Display{
			Index:  i,
			Bounds: screenshot.GetDisplayBounds(i),
		})
	}
	return displays
}

// ScreenshotCapturer captures a display through the platform screenshot APIs
type ScreenshotCapturer struct {
	display int
}

// NewScreenshotCapturer creates a capturer for display index display
func NewScreenshotCapturer(display int) *ScreenshotCapturer {
	return &ScreenshotCapturer{display: display}
}

// Start checks that the configured display exists
func (c *ScreenshotCapturer) Start() error {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return fmt.Errorf("no active display found")
	}
	if c.display >= n {
		return fmt.Errorf("display %d not found (%d active)", c.display, n)
	}
	return nil
}

// Stop is a no-op; the screenshot package holds no resources between calls
func (c *ScreenshotCapturer) Stop() error {
	return nil
}

// Name returns the capturer name
func (c *ScreenshotCapturer) Name() string {
	return "screenshot"
}

// IsAvailable reports whether any display can be captured
func (c *ScreenshotCapturer) IsAvailable() bool {
	return screenshot.NumActiveDisplays() > 0
}

// CaptureScreen captures the configured display
func (c *ScreenshotCapturer) CaptureScreen() (*image.RGBA, error) {
	img, err := screenshot.CaptureDisplay(c.display)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", c.display, err)
	}
	return img, nil
}
