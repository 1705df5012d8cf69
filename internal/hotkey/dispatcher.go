package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bryanchriswhite/tortor/internal/logger"
)

// ErrDuplicateBinding is returned when a combination is bound twice
var ErrDuplicateBinding = errors.New("hotkey already bound")

// Listener delivers global key presses to a Dispatcher
type Listener interface {
	// Listen registers every binding of d and blocks, invoking callbacks
	// synchronously, until ctx is done or the listener is closed.
	Listen(ctx context.Context, d *Dispatcher) error

	// Close releases the grabs and unblocks Listen
	Close() error
}

// Dispatcher maps bindings to callbacks
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Binding]func()
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Binding]func()),
	}
}

// Bind associates fn with b
func (d *Dispatcher) Bind(b Binding, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[b]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBinding, b)
	}
	d.handlers[b] = fn
	return nil
}

// Dispatch runs the callback bound to b on the calling goroutine.
// It reports whether a callback was found.
func (d *Dispatcher) Dispatch(b Binding) bool {
	d.mu.RLock()
	fn, ok := d.handlers[b]
	d.mu.RUnlock()

	if !ok {
		return false
	}

	logger.WithComponent("hotkey").Debug().
		Str("binding", b.String()).
		Msg("Hotkey triggered")
	fn()
	return true
}

// Bindings returns the bound combinations in a stable order
func (d *Dispatcher) Bindings() []Binding {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Binding, 0, len(d.handlers))
	for b := range d.handlers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
