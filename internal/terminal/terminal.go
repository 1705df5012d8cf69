// Package terminal discards keystrokes typed into the controlling terminal
// while the program ran in the background, so shortcut letters do not end up
// in the shell prompt after exit.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// FlushInput discards pending input on f if f is a terminal
func FlushInput(f *os.File) error {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return flush(int(f.Fd()))
}
