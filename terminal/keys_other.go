//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package terminal

import (
	"bufio"
	"os"
	"time"
)

// KeyReader reads single keypresses from a terminal in raw mode. Without
// poll(2) a background goroutine feeds a channel that PollKey selects on.
type KeyReader struct {
	keys chan byte
}

// NewKeyReader starts reading f. The reader goroutine lives as long as f.
func NewKeyReader(f *os.File) *KeyReader {
	r := &KeyReader{keys: make(chan byte)}
	go func() {
		in := bufio.NewReader(f)
		for {
			b, err := in.ReadByte()
			if err != nil {
				close(r.keys)
				return
			}
			r.keys <- b
		}
	}()
	return r
}

// PollKey waits up to timeout for one byte of input. ok is false when nothing
// arrived or the input stream has ended.
func (r *KeyReader) PollKey(timeout time.Duration) (key byte, ok bool, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case b, open := <-r.keys:
		if !open {
			<-timer.C
			return 0, false, nil
		}
		return b, true, nil
	case <-timer.C:
		return 0, false, nil
	}
}
