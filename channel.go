package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// DefaultReadTimeout bounds a single ReadAvailable call when Config.ReadTimeout is zero.
const DefaultReadTimeout = 100 * time.Millisecond

const readBufferSize = 4096

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds configuration parameters for opening a serial port.
type Config struct {
	Device      string        `validate:"required"`
	BaudRate    int           `validate:"gt=0"`
	ReadTimeout time.Duration `validate:"gte=0"`
}

// Port is the platform serial handle a Channel drives.
//
// Read must return (0, nil) when the read timeout elapses with no data.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Channel owns one open serial connection.
//
// Reads, writes and Close may each come from a different goroutine, but
// ReadAvailable must not be called concurrently with itself, and neither
// may Write.
type Channel struct {
	port      Port
	config    Config
	dec       decoder
	buf       []byte
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Open opens the serial port described by cfg and returns a Channel.
// Every error wraps ErrConnection.
func Open(cfg Config) (*Channel, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: invalid config: %w", ErrConnection, err)
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	port, err := openPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, cfg.Device, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: set read timeout: %w", ErrConnection, err)
	}

	log.Debug().
		Str("device", cfg.Device).
		Int("baud", cfg.BaudRate).
		Dur("read_timeout", cfg.ReadTimeout).
		Msg("serial port opened")

	return NewChannel(port, cfg), nil
}

// NewChannel wraps an already open port.
func NewChannel(port Port, cfg Config) *Channel {
	return &Channel{
		port:   port,
		config: cfg,
		dec:    newDecoder(),
		buf:    make([]byte, readBufferSize),
	}
}

// Config returns the parameters the channel was opened with.
func (c *Channel) Config() Config {
	return c.config
}

// ReadAvailable returns whatever the device has buffered, decoded as UTF-8.
// It blocks for at most the read timeout and returns "" if nothing arrived.
// Invalid byte sequences are replaced, never reported.
func (c *Channel) ReadAvailable() (string, error) {
	if c.port == nil || c.closed.Load() {
		return "", ErrClosed
	}
	n, err := c.port.Read(c.buf)
	if err != nil {
		if c.closed.Load() || errors.Is(err, ErrClosed) {
			return "", ErrClosed
		}
		if errors.Is(err, ErrDeviceLost) {
			return "", err
		}
		return "", fmt.Errorf("%w: read: %w", ErrDeviceLost, err)
	}
	if n == 0 {
		return "", nil
	}
	return c.dec.decode(c.buf[:n]), nil
}

// Write sends all of p to the device, retrying after short writes.
func (c *Channel) Write(p []byte) error {
	if c.port == nil || c.closed.Load() {
		return ErrClosed
	}
	for len(p) > 0 {
		n, err := c.port.Write(p)
		if err == nil && n == 0 {
			err = io.ErrShortWrite
		}
		if err != nil {
			if c.closed.Load() || errors.Is(err, ErrClosed) {
				return ErrClosed
			}
			if errors.Is(err, ErrDeviceLost) {
				return err
			}
			return fmt.Errorf("%w: write: %w", ErrDeviceLost, err)
		}
		p = p[n:]
	}
	return nil
}

// Close releases the port. Safe to call multiple times and on a Channel that
// never opened; subsequent calls are no-ops.
func (c *Channel) Close() error {
	if c == nil || c.port == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.port.Close()
		log.Debug().Str("device", c.config.Device).Err(c.closeErr).Msg("serial port closed")
	})
	return c.closeErr
}
