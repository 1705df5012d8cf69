// Package hotkey parses key combinations and dispatches global shortcuts to
// callbacks. The X11 listener grabs the combinations on the root window so
// they fire regardless of which application has focus.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier is a bit set of modifier keys
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "ctrl"},
	{ModShift, "shift"},
	{ModAlt, "alt"},
	{ModSuper, "super"},
}

var modifierAliases = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"super":   ModSuper,
	"cmd":     ModSuper,
	"win":     ModSuper,
	"meta":    ModSuper,
}

// ErrInvalidBinding is returned by Parse for malformed combinations
var ErrInvalidBinding = errors.New("invalid hotkey")

// Binding is a key combined with zero or more modifiers
type Binding struct {
	Mods Modifier
	Key  string
}

// Parse reads a combination such as "<alt>+s", "alt+s" or "Ctrl+Shift+F1".
func Parse(s string) (Binding, error) {
	var b Binding
	if strings.TrimSpace(s) == "" {
		return b, fmt.Errorf("%w: empty", ErrInvalidBinding)
	}

	for _, part := range strings.Split(s, "+") {
		name := strings.ToLower(strings.TrimSpace(part))
		name = strings.TrimSuffix(strings.TrimPrefix(name, "<"), ">")
		if name == "" {
			return Binding{}, fmt.Errorf("%w: %q has an empty key", ErrInvalidBinding, s)
		}

		if mod, ok := modifierAliases[name]; ok {
			b.Mods |= mod
			continue
		}

		if b.Key != "" {
			return Binding{}, fmt.Errorf("%w: %q has more than one key", ErrInvalidBinding, s)
		}
		if _, ok := keysyms[name]; !ok {
			return Binding{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidBinding, name, s)
		}
		b.Key = canonicalKey(name)
	}

	if b.Key == "" {
		return Binding{}, fmt.Errorf("%w: %q has no key", ErrInvalidBinding, s)
	}
	return b, nil
}

// MustParse is like Parse but panics on error
func MustParse(s string) Binding {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders the binding in "<alt>+s" form
func (b Binding) String() string {
	var parts []string
	for _, m := range modifierOrder {
		if b.Mods&m.mod != 0 {
			parts = append(parts, "<"+m.name+">")
		}
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}
