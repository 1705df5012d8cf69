//go:build linux

package terminal

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func flush(fd int) error {
	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIFLUSH); err != nil {
		return fmt.Errorf("failed to flush terminal input: %w", err)
	}
	return nil
}
