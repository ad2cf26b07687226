package relay

import (
	"bytes"
	"sync"
	"sync/atomic"
	"time"

	serial "github.com/luhtfiimanal/go-serial-term"
)

// fakeChannel stands in for a serial device. Incoming text is queued on
// incoming; writes are recorded.
type fakeChannel struct {
	incoming chan string
	readErr  error

	mu     sync.Mutex
	writes []string
	closes int

	blockWrites  bool
	writeStarted chan struct{}
	closed       chan struct{}
	closeOnce    sync.Once
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		incoming:     make(chan string, 8),
		writeStarted: make(chan struct{}, 1),
		closed:       make(chan struct{}),
	}
}

func (f *fakeChannel) ReadAvailable() (string, error) {
	select {
	case <-f.closed:
		return "", serial.ErrClosed
	default:
	}
	if f.readErr != nil {
		return "", f.readErr
	}
	select {
	case s := <-f.incoming:
		return s, nil
	case <-time.After(2 * time.Millisecond):
		return "", nil
	}
}

func (f *fakeChannel) Write(p []byte) error {
	if f.blockWrites {
		select {
		case f.writeStarted <- struct{}{}:
		default:
		}
		<-f.closed
		return serial.ErrClosed
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, string(p))
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeChannel) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

func (f *fakeChannel) Closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// scriptedKeys hands out a fixed sequence of keys, then reports no input.
type scriptedKeys struct {
	mu    sync.Mutex
	keys  []byte
	panic bool
}

func keysOf(s string) *scriptedKeys {
	return &scriptedKeys{keys: []byte(s)}
}

func (k *scriptedKeys) PollKey(timeout time.Duration) (byte, bool, error) {
	if k.panic {
		panic("keyboard exploded")
	}
	k.mu.Lock()
	if len(k.keys) == 0 {
		k.mu.Unlock()
		time.Sleep(timeout)
		return 0, false, nil
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	k.mu.Unlock()
	return key, true, nil
}

type fakeRaw struct {
	restored atomic.Int32
}

func (r *fakeRaw) Restore() error {
	r.restored.Add(1)
	return nil
}

// syncBuffer is a bytes.Buffer safe to read while the display writes to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
