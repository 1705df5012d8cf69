package hotkey

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/bryanchriswhite/tortor/internal/logger"
)

// ErrDisconnected is returned by Listen when the X connection goes away
var ErrDisconnected = errors.New("x11 connection closed")

// lockMasks are the modifier states a grab must also cover so shortcuts keep
// working with CapsLock (Lock) or NumLock (Mod2) on.
var lockMasks = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

type grab struct {
	code xproto.Keycode
	mods uint16
}

// X11Listener grabs hotkeys on the X11 root window
type X11Listener struct {
	conn *xgb.Conn
	root xproto.Window

	mu        sync.Mutex
	symToCode map[uint32]xproto.Keycode
	codeToSym map[xproto.Keycode]uint32
	grabs     []grab
	repeats   repeatFilter

	done      chan struct{}
	closeOnce sync.Once
}

// NewX11Listener connects to the X server named by $DISPLAY
func NewX11Listener() (*X11Listener, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	return &X11Listener{
		conn: conn,
		root: root,
		done: make(chan struct{}),
	}, nil
}

// Listen grabs every binding of d and delivers matching key presses to it
func (l *X11Listener) Listen(ctx context.Context, d *Dispatcher) error {
	log := logger.WithComponent("x11-hotkey")

	if err := l.loadKeymap(); err != nil {
		return err
	}

	for _, b := range d.Bindings() {
		if err := l.grab(b); err != nil {
			return err
		}
		log.Info().Str("binding", b.String()).Msg("Hotkey registered")
	}

	events := make(chan xgb.Event)
	go l.readEvents(events)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrDisconnected
			}
			l.handle(ev, d)
		}
	}
}

// readEvents forwards X events until the connection is closed
func (l *X11Listener) readEvents(events chan<- xgb.Event) {
	log := logger.WithComponent("x11-hotkey")
	defer close(events)

	for {
		ev, xerr := l.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			log.Debug().Str("error", xerr.Error()).Msg("X11 error event")
			continue
		}

		select {
		case events <- ev:
		case <-l.done:
			return
		}
	}
}

func (l *X11Listener) handle(ev xgb.Event, d *Dispatcher) {
	switch e := ev.(type) {
	case xproto.KeyReleaseEvent:
		l.repeats.release(e.Detail, e.Time)
	case xproto.KeyPressEvent:
		if l.repeats.isRepeat(e.Detail, e.Time) {
			return
		}
		b, ok := l.bindingFor(e.Detail, e.State)
		if !ok {
			return
		}
		d.Dispatch(b)
	}
}

// loadKeymap builds the keysym/keycode tables from the server's keyboard mapping
func (l *X11Listener) loadKeymap() error {
	setup := xproto.Setup(l.conn)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)

	reply, err := xproto.GetKeyboardMapping(l.conn, first, count).Reply()
	if err != nil {
		return fmt.Errorf("failed to get keyboard mapping: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.symToCode, l.codeToSym = buildKeymap(first, int(reply.KeysymsPerKeycode), reply.Keysyms)
	return nil
}

// buildKeymap indexes a GetKeyboardMapping reply in both directions
func buildKeymap(first xproto.Keycode, perCode int, syms []xproto.Keysym) (map[uint32]xproto.Keycode, map[xproto.Keycode]uint32) {
	symToCode := make(map[uint32]xproto.Keycode)
	codeToSym := make(map[xproto.Keycode]uint32)
	if perCode == 0 {
		return symToCode, codeToSym
	}

	for i := 0; i*perCode < len(syms); i++ {
		code := first + xproto.Keycode(i)
		for col := 0; col < perCode && i*perCode+col < len(syms); col++ {
			sym := uint32(syms[i*perCode+col])
			if sym == 0 {
				continue
			}
			if _, ok := symToCode[sym]; !ok {
				symToCode[sym] = code
			}
			if _, ok := codeToSym[code]; !ok {
				codeToSym[code] = sym
			}
		}
	}
	return symToCode, codeToSym
}

func (l *X11Listener) grab(b Binding) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	code, ok := l.symToCode[keysyms[b.Key]]
	if !ok {
		return fmt.Errorf("no keycode for key %q in current keyboard layout", b.Key)
	}

	base := maskFor(b.Mods)
	for _, extra := range lockMasks {
		mods := base | extra
		err := xproto.GrabKeyChecked(
			l.conn,
			true,
			l.root,
			mods,
			code,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check()
		if err != nil {
			return fmt.Errorf("failed to grab %s (already taken by another client?): %w", b, err)
		}
		l.grabs = append(l.grabs, grab{code: code, mods: mods})
	}
	return nil
}

func (l *X11Listener) bindingFor(code xproto.Keycode, state uint16) (Binding, bool) {
	l.mu.Lock()
	sym, ok := l.codeToSym[code]
	l.mu.Unlock()
	if !ok {
		return Binding{}, false
	}

	key, ok := keyForSym(sym)
	if !ok {
		return Binding{}, false
	}
	return Binding{Mods: modifiersFromState(state), Key: key}, true
}

// Close releases all grabs and the X connection
func (l *X11Listener) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		for _, g := range l.grabs {
			xproto.UngrabKey(l.conn, g.code, l.root, g.mods)
		}
		l.grabs = nil
		l.mu.Unlock()

		l.conn.Close()
	})
	return nil
}

// maskFor converts modifiers to an X11 modifier mask
func maskFor(m Modifier) uint16 {
	var mask uint16
	if m&ModShift != 0 {
		mask |= xproto.ModMaskShift
	}
	if m&ModCtrl != 0 {
		mask |= xproto.ModMaskControl
	}
	if m&ModAlt != 0 {
		mask |= xproto.ModMask1
	}
	if m&ModSuper != 0 {
		mask |= xproto.ModMask4
	}
	return mask
}

// modifiersFromState converts an X11 key event state to modifiers, ignoring
// Lock, NumLock and mouse button bits.
func modifiersFromState(state uint16) Modifier {
	var m Modifier
	if state&xproto.ModMaskShift != 0 {
		m |= ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		m |= ModCtrl
	}
	if state&xproto.ModMask1 != 0 {
		m |= ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		m |= ModSuper
	}
	return m
}

// repeatFilter detects X autorepeat, which arrives as a release immediately
// followed by a press carrying the same timestamp.
type repeatFilter struct {
	lastRelease map[xproto.Keycode]xproto.Timestamp
}

func (f *repeatFilter) release(code xproto.Keycode, t xproto.Timestamp) {
	if f.lastRelease == nil {
		f.lastRelease = make(map[xproto.Keycode]xproto.Timestamp)
	}
	f.lastRelease[code] = t
}

func (f *repeatFilter) isRepeat(code xproto.Keycode, t xproto.Timestamp) bool {
	last, ok := f.lastRelease[code]
	return ok && last == t
}
