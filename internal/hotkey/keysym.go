package hotkey

import "fmt"

// keysyms maps key names to X11 keysym values (X11/keysymdef.h)
var keysyms = map[string]uint32{
	"space":     0x0020,
	"tab":       0xff09,
	"enter":     0xff0d,
	"return":    0xff0d,
	"esc":       0xff1b,
	"escape":    0xff1b,
	"backspace": 0xff08,
	"delete":    0xffff,
	"insert":    0xff63,
	"home":      0xff50,
	"end":       0xff57,
	"page_up":   0xff55,
	"page_down": 0xff56,
	"left":      0xff51,
	"up":        0xff52,
	"right":     0xff53,
	"down":      0xff54,
	"print":     0xff61,
	"pause":     0xff13,
}

// keyNames is the reverse of keysyms, preferring the shorter alias
var keyNames = map[uint32]string{}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keysyms[string(c)] = uint32(c)
	}
	for c := '0'; c <= '9'; c++ {
		keysyms[string(c)] = uint32(c)
	}
	for i := 1; i <= 12; i++ {
		keysyms[fmt.Sprintf("f%d", i)] = 0xffbe + uint32(i-1)
	}

	for name, sym := range keysyms {
		if prev, ok := keyNames[sym]; !ok || len(name) < len(prev) || (len(name) == len(prev) && name < prev) {
			keyNames[sym] = name
		}
	}
}

// canonicalKey resolves aliases so "return" and "enter" compare equal
func canonicalKey(name string) string {
	if sym, ok := keysyms[name]; ok {
		return keyNames[sym]
	}
	return name
}

// keyForSym returns the key name for a keysym. Upper-case letters map to
// their lower-case key since shift is tracked as a modifier.
func keyForSym(sym uint32) (string, bool) {
	if sym >= 'A' && sym <= 'Z' {
		sym += 'a' - 'A'
	}
	name, ok := keyNames[sym]
	return name, ok
}
