//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package terminal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// KeyReader reads single keypresses from a terminal in raw mode.
type KeyReader struct {
	fd  int
	buf [1]byte
}

// NewKeyReader returns a KeyReader for f, typically os.Stdin.
func NewKeyReader(f *os.File) *KeyReader {
	return &KeyReader{fd: int(f.Fd())}
}

// PollKey waits up to timeout for one byte of input. ok is false when nothing
// arrived. A closed input stream is not an error: PollKey waits out the timeout
// and reports no key.
func (r *KeyReader) PollKey(timeout time.Duration) (key byte, ok bool, err error) {
	fds := []unix.PollFd{
		{Fd: int32(r.fd), Events: unix.POLLIN},
	}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("poll stdin: %w", err)
	}
	if n == 0 {
		return 0, false, nil // Timeout
	}

	rn, err := unix.Read(r.fd, r.buf[:])
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read stdin: %w", err)
	}
	if rn == 0 {
		// EOF
		time.Sleep(timeout)
		return 0, false, nil
	}
	return r.buf[0], true, nil
}
