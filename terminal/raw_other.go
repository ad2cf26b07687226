//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// RawMode is a scoped acquisition of raw keyboard input on one terminal.
// Restore puts the saved settings back and is safe to call more than once.
type RawMode struct {
	fd   int
	prev *term.State
	once sync.Once
	err  error
}

// EnterRaw switches f to raw mode and returns the guard that undoes it.
func EnterRaw(f *os.File) (*RawMode, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}
	return &RawMode{fd: fd, prev: prev}, nil
}

// Restore returns the terminal to the mode it had before EnterRaw.
func (r *RawMode) Restore() error {
	r.once.Do(func() {
		r.err = term.Restore(r.fd, r.prev)
	})
	return r.err
}
