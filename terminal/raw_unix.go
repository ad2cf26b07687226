//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// RawMode is a scoped acquisition of raw keyboard input on one terminal.
// Restore puts the saved settings back and is safe to call more than once.
type RawMode struct {
	fd   int
	prev unix.Termios
	once sync.Once
	err  error
}

// EnterRaw switches f to raw input mode and returns the guard that undoes it.
// Callers should defer Restore immediately.
func EnterRaw(f *os.File) (*RawMode, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}

	prev, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}

	raw := *prev
	raw.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("set termios: %w", err)
	}
	return &RawMode{fd: fd, prev: *prev}, nil
}

// Restore returns the terminal to the mode it had before EnterRaw.
func (r *RawMode) Restore() error {
	r.once.Do(func() {
		if err := unix.IoctlSetTermios(r.fd, ioctlWriteTermios, &r.prev); err != nil {
			r.err = fmt.Errorf("restore termios: %w", err)
		}
	})
	return r.err
}
