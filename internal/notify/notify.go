// Package notify delivers user-facing status messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/bryanchriswhite/tortor/internal/logger"
)

// Kind classifies a message so sinks can filter what they show
type Kind int

const (
	// KindStatus covers start, pause, resume and exit confirmations
	KindStatus Kind = iota
	// KindCapture is emitted once per saved screenshot
	KindCapture
	// KindSummary carries count summaries
	KindSummary
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindCapture:
		return "capture"
	case KindSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Event is one status message
type Event struct {
	Kind Kind
	Text string
}

// Notifier shows events to the user
type Notifier interface {
	Notify(ev Event) error
}

// Console prints each event as a line
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify writes the event text followed by a newline
func (c *Console) Notify(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, ev.Text)
	return err
}

// Multi fans events out to several notifiers. The first notifier is the
// primary one; failures of the others are logged and dropped.
type Multi []Notifier

// Notify delivers ev to every notifier
func (m Multi) Notify(ev Event) error {
	var primary error
	for i, n := range m {
		err := n.Notify(ev)
		if err == nil {
			continue
		}
		if i == 0 {
			primary = err
			continue
		}
		logger.WithComponent("notify").Warn().
			Err(err).
			Str("kind", ev.Kind.String()).
			Msg("Secondary notifier failed")
	}
	return primary
}

// Discard drops every event
type Discard struct{}

// Notify does nothing
func (Discard) Notify(Event) error { return nil }
