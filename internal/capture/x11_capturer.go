package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/bryanchriswhite/tortor/internal/logger"
)

// X11Capturer captures the root window using X11/XWayland
type X11Capturer struct {
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
	mu     sync.Mutex
}

// NewX11Capturer creates a new X11 capturer
func NewX11Capturer() (*X11Capturer, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	return &X11Capturer{
		conn:   conn,
		root:   screen.Root,
		screen: screen,
	}, nil
}

// Start checks the root window depth is one we can convert
func (c *X11Capturer) Start() error {
	depth := c.screen.RootDepth
	if depth != 24 && depth != 32 {
		return fmt.Errorf("unsupported root window depth %d", depth)
	}

	logger.WithComponent("x11-capturer").Debug().
		Uint16("width", c.screen.WidthInPixels).
		Uint16("height", c.screen.HeightInPixels).
		Uint8("depth", depth).
		Msg("X11 capturer ready")
	return nil
}

// Stop closes the X11 connection
func (c *X11Capturer) Stop() error {
	c.conn.Close()
	return nil
}

// Name returns the capturer name
func (c *X11Capturer) Name() string {
	return "x11"
}

// IsAvailable checks if X11 capture is available
func (c *X11Capturer) IsAvailable() bool {
	return c.conn != nil
}

// CaptureScreen captures the whole root window
func (c *X11Capturer) CaptureScreen() (*image.RGBA, error) {
	return c.captureRegion(0, 0, int(c.screen.WidthInPixels), int(c.screen.HeightInPixels))
}

// captureRegion captures a region of the root window
func (c *X11Capturer) captureRegion(x, y, width, height int) (*image.RGBA, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply, err := xproto.GetImage(
		c.conn,
		xproto.ImageFormatZPixmap,
		xproto.Drawable(c.root),
		int16(x), int16(y),
		uint16(width), uint16(height),
		0xffffffff,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return convertBGRA(reply.Data, width, height), nil
}

// convertBGRA converts 32-bit ZPixmap data (BGRX byte order) to RGBA
func convertBGRA(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height * 4
	if len(data) < n {
		n = len(data) - len(data)%4
	}

	for i := 0; i < n; i += 4 {
		img.Pix[i] = data[i+2]
		img.Pix[i+1] = data[i+1]
		img.Pix[i+2] = data[i]
		img.Pix[i+3] = 255
	}
	return img
}
