package capture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/bryanchriswhite/tortor/internal/storage"
	"github.com/spf13/afero"
)

type fakeCapturer struct {
	name      string
	available bool
	startErr  error
	img       *image.RGBA
	err       error
	started   int
	stopped   int
}

func (f *fakeCapturer) Start() error                        { f.started++; return f.startErr }
func (f *fakeCapturer) Stop() error                         { f.stopped++; return nil }
func (f *fakeCapturer) Name() string                        { return f.name }
func (f *fakeCapturer) IsAvailable() bool                   { return f.available }
func (f *fakeCapturer) CaptureScreen() (*image.RGBA, error) { return f.img, f.err }

func newTestRouter(t *testing.T, backend string, sc, x11 *fakeCapturer, x11Err error) *Router {
	t.Helper()
	r, err := NewRouter(backend, 0)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	r.newScreenshot = func(int) Capturer { return sc }
	r.newX11 = func() (Capturer, error) {
		if x11Err != nil {
			return nil, x11Err
		}
		return x11, nil
	}
	return r
}

func TestRouterAutoPrefersScreenshot(t *testing.T) {
	sc := &fakeCapturer{name: "screenshot", available: true}
	x11 := &fakeCapturer{name: "x11", available: true}
	r := newTestRouter(t, BackendAuto, sc, x11, nil)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Name() != "screenshot" {
		t.Fatalf("active backend = %s, want screenshot", r.Name())
	}
	if x11.started != 0 {
		t.Fatal("x11 started although screenshot was available")
	}
}

func TestRouterAutoFallsBackToX11(t *testing.T) {
	sc := &fakeCapturer{name: "screenshot", available: false}
	x11 := &fakeCapturer{name: "x11", available: true}
	r := newTestRouter(t, BackendAuto, sc, x11, nil)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Name() != "x11" {
		t.Fatalf("active backend = %s, want x11", r.Name())
	}
}

func TestRouterExplicitBackendDoesNotFallBack(t *testing.T) {
	sc := &fakeCapturer{name: "screenshot", available: true, startErr: errors.New("no display 3")}
	x11 := &fakeCapturer{name: "x11", available: true}
	r := newTestRouter(t, BackendScreenshot, sc, x11, nil)

	err := r.Start()
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("Start error = %v, want ErrNoBackend", err)
	}
	if x11.started != 0 {
		t.Fatal("x11 started for explicit screenshot backend")
	}
}

func TestRouterNoBackend(t *testing.T) {
	sc := &fakeCapturer{name: "screenshot"}
	r := newTestRouter(t, BackendAuto, sc, nil, errors.New("no $DISPLAY"))

	if err := r.Start(); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("Start error = %v, want ErrNoBackend", err)
	}
	if _, err := r.CaptureScreen(); !errors.Is(err, ErrNoBackend) {
		t.Fatalf("CaptureScreen before start error = %v, want ErrNoBackend", err)
	}
}

func TestNewRouterRejectsUnknownBackend(t *testing.T) {
	if _, err := NewRouter("wayland", 0); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestRouterStopStopsActive(t *testing.T) {
	sc := &fakeCapturer{name: "screenshot", available: true}
	r := newTestRouter(t, BackendAuto, sc, nil, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	if err := r.Stop(); err != nil {
		t.Fatal(err)
	}
	if sc.stopped != 1 {
		t.Fatalf("stopped %d times, want 1", sc.stopped)
	}
	if r.IsAvailable() {
		t.Fatal("router still available after Stop")
	}
}

func TestConvertBGRA(t *testing.T) {
	// One pixel, B=1 G=2 R=3 X=0
	img := convertBGRA([]byte{1, 2, 3, 0}, 1, 1)
	want := []byte{3, 2, 1, 255}
	if !bytes.Equal(img.Pix, want) {
		t.Fatalf("Pix = %v, want %v", img.Pix, want)
	}

	// Short data leaves the remainder black and transparent
	img = convertBGRA([]byte{1, 2, 3, 0}, 2, 1)
	if img.Pix[4] != 0 || img.Pix[7] != 0 {
		t.Fatalf("unexpected fill for missing data: %v", img.Pix)
	}
}

func TestSinkWritesPNG(t *testing.T) {
	fs := afero.NewMemMapFs()
	fc := &fakeCapturer{name: "fake", available: true, img: image.NewRGBA(image.Rect(0, 0, 8, 6))}
	store := storage.New(fs)
	if err := store.EnsureDir("shots"); err != nil {
		t.Fatal(err)
	}
	sink := NewSink(fc, store)

	if err := sink.Capture("shots/x.png"); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	data, err := afero.ReadFile(fs, "shots/x.png")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not a PNG: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 6 {
		t.Fatalf("size = %dx%d, want 8x6", cfg.Width, cfg.Height)
	}
}

func TestSinkPropagatesCaptureError(t *testing.T) {
	boom := errors.New("boom")
	sink := NewSink(&fakeCapturer{name: "fake", err: boom}, storage.New(afero.NewMemMapFs()))

	if err := sink.Capture("x.png"); !errors.Is(err, boom) {
		t.Fatalf("Capture error = %v, want wrapped boom", err)
	}
}
