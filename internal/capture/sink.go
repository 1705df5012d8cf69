package capture

import (
	"fmt"
	"time"

	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/bryanchriswhite/tortor/internal/storage"
	"github.com/dustin/go-humanize"
)

// Sink captures the screen and writes it as a PNG file
type Sink struct {
	capturer Capturer
	store    *storage.Store
}

// NewSink combines a capturer and a store
func NewSink(c Capturer, s *storage.Store) *Sink {
	return &Sink{capturer: c, store: s}
}

// Capture writes a full-screen PNG to path, overwriting any existing file
func (s *Sink) Capture(path string) error {
	start := time.Now()

	img, err := s.capturer.CaptureScreen()
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	n, err := s.store.WriteImage(path, img)
	if err != nil {
		return err
	}

	logger.WithComponent("capture").Debug().
		Str("path", path).
		Str("backend", s.capturer.Name()).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Str("size", humanize.Bytes(uint64(n))).
		Dur("took", time.Since(start)).
		Msg("Screenshot written")
	return nil
}
