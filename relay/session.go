package relay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	serial "github.com/luhtfiimanal/go-serial-term"
	"github.com/luhtfiimanal/go-serial-term/terminal"
)

const (
	// DefaultPollInterval is the inbound sleep and the key poll timeout.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultGraceDelay bounds how long teardown waits for the loops before closing the port.
	DefaultGraceDelay = 500 * time.Millisecond
)

// Channel is the serial link shared by the relay loops.
type Channel interface {
	ReadAvailable() (string, error)
	Write(p []byte) error
	Close() error
}

// KeySource yields single keypresses. ok is false when no key arrived within timeout.
type KeySource interface {
	PollKey(timeout time.Duration) (key byte, ok bool, err error)
}

type rawMode interface {
	Restore() error
}

// Config controls one session.
type Config struct {
	Port         string
	BaudRate     int
	ReadTimeout  time.Duration // bound on a single serial read
	PollInterval time.Duration // inbound sleep and key poll timeout
	GraceDelay   time.Duration // how long teardown waits for the loops before closing anyway
}

// DefaultConfig returns a Config for port and baud with the standard timings.
func DefaultConfig(port string, baud int) Config {
	return Config{
		Port:         port,
		BaudRate:     baud,
		ReadTimeout:  serial.DefaultReadTimeout,
		PollInterval: DefaultPollInterval,
		GraceDelay:   DefaultGraceDelay,
	}
}

// Session is the controller of one interactive serial session.
type Session struct {
	cfg      Config
	open     func(Config) (Channel, error)
	enterRaw func() (rawMode, error)
	keys     KeySource
	display  *terminal.Display
	clock    clockwork.Clock
	platform string
}

// NewSession returns a Session wired to the process terminal and a real serial port.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:      cfg,
		open:     openSerial,
		enterRaw: func() (rawMode, error) { return terminal.EnterRaw(os.Stdin) },
		keys:     terminal.NewKeyReader(os.Stdin),
		display:  terminal.NewStdoutDisplay(),
		clock:    clockwork.NewRealClock(),
		platform: platform(),
	}
}

func openSerial(cfg Config) (Channel, error) {
	ch, err := serial.Open(serial.Config{
		Device:      cfg.Port,
		BaudRate:    cfg.BaudRate,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Run enters raw mode, opens the port and relays in both directions until ctx
// is cancelled, the user presses Ctrl+C, or a loop fails. The terminal mode is
// restored on every return path. A user or signal stop returns nil.
func (s *Session) Run(ctx context.Context) error {
	raw, err := s.enterRaw()
	if err != nil {
		s.display.Error(fmt.Sprintf("Error entering raw mode: %v", err))
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() {
		if err := raw.Restore(); err != nil {
			log.Warn().Err(err).Msg("failed to restore terminal mode")
		}
	}()

	ch, err := s.open(s.cfg)
	if err != nil {
		s.display.Error(fmt.Sprintf("Error opening serial port: %v", err))
		return err
	}
	s.display.Banner(s.platform, s.cfg.Port, s.cfg.BaudRate)

	runCtx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(guard("inbound", func() error {
		return relayInbound(gctx, ch, s.display, s.clock, s.cfg.PollInterval)
	}))
	g.Go(guard("outbound", func() error {
		return relayOutbound(gctx, ch, s.keys, s.display, s.cfg.PollInterval, stop)
	}))
	log.Debug().Str("port", s.cfg.Port).Int("baud", s.cfg.BaudRate).Msg("session started")

	<-gctx.Done()
	log.Debug().AnErr("cause", context.Cause(gctx)).Msg("session stopping")

	return s.teardown(ch, g)
}

// teardown joins the loops and closes the channel. The join is bounded by the
// grace delay; past it the channel is closed first so a stalled read or write
// returns, and then the loops are joined.
func (s *Session) teardown(ch Channel, g *errgroup.Group) error {
	s.display.Notice("\nClosing serial port")

	joined := make(chan error, 1)
	go func() { joined <- g.Wait() }()

	var err error
	select {
	case err = <-joined:
		closeChannel(ch)
	case <-s.clock.After(s.cfg.GraceDelay):
		log.Warn().Dur("grace", s.cfg.GraceDelay).Msg("relay loops still running, closing serial port")
		closeChannel(ch)
		err = <-joined
	}

	if err != nil {
		if errors.Is(err, serial.ErrDeviceLost) {
			s.display.Error(fmt.Sprintf("Serial connection lost: %v", err))
		} else {
			s.display.Error(fmt.Sprintf("Session error: %v", err))
		}
		return err
	}
	return nil
}

func closeChannel(ch Channel) {
	if err := ch.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close serial port")
	}
}

// stopping reports whether err is just the channel closing under a loop that
// has already been told to stop.
func stopping(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, serial.ErrClosed)
}

// guard turns a panic in a relay loop into an error so teardown still runs.
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("loop", name).Interface("panic", r).Msg("relay loop panicked")
				err = fmt.Errorf("%s relay panicked: %v", name, r)
			}
		}()
		err = fn()
		log.Debug().Str("loop", name).Err(err).Msg("relay loop exited")
		return err
	}
}
