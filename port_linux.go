//go:build linux

package serial

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// nativePort provides low-latency, killable access to a Linux serial port.
// Reads wait in poll(2) on the device and a self-pipe, so Close can wake them.
// The fd stays O_NONBLOCK, which puts the os.File on the runtime poller: a
// Write stuck on a full output queue fails with os.ErrClosed once Close runs.
type nativePort struct {
	fd        int
	file      *os.File
	done      chan struct{}
	closeOnce sync.Once
	timeout   time.Duration
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd
}

var baudRates = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
	2500000: unix.B2500000,
	3000000: unix.B3000000,
	3500000: unix.B3500000,
	4000000: unix.B4000000,
}

// openPort opens cfg.Device for raw, exclusive, non-buffered operation.
func openPort(cfg Config) (Port, error) {
	speed, ok := baudRates[cfg.BaudRate]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBaud, cfg.BaudRate)
	}

	fd, err := unix.Open(cfg.Device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrPortBusy
		}
		return nil, fmt.Errorf("lock: %w", err)
	}

	if err := setRaw(fd, speed); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	pipeFds := make([]int, 2)
	if err := unix.Pipe2(pipeFds, unix.O_CLOEXEC); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("pipe: %w", err)
	}

	return &nativePort{
		fd:      fd,
		file:    os.NewFile(uintptr(fd), cfg.Device),
		done:    make(chan struct{}),
		timeout: DefaultReadTimeout,
		pipeR:   pipeFds[0],
		pipeW:   pipeFds[1],
	}, nil
}

func setRaw(fd int, speed uint32) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL

	// Baud rate
	termios.Cflag &^= unix.CBAUD
	termios.Cflag |= speed
	termios.Ispeed = speed
	termios.Ospeed = speed

	// Reads are gated by poll, so a read only runs once a byte is ready.
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("set termios: %w", err)
	}
	return nil
}

func (p *nativePort) SetReadTimeout(t time.Duration) error {
	p.timeout = t
	return nil
}

// Read waits up to the read timeout for data and returns what is available.
// It returns (0, nil) on timeout and ErrClosed once Close has been called.
func (p *nativePort) Read(buf []byte) (int, error) {
	timeout := -1
	if p.timeout >= 0 {
		timeout = int(p.timeout.Milliseconds())
	}

	for {
		// Use poll to wait for data or kill signal
		pfd := []unix.PollFd{
			{Fd: int32(p.fd), Events: unix.POLLIN},
			{Fd: int32(p.pipeR), Events: unix.POLLIN},
		}
		n, err := unix.Poll(pfd, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, fmt.Errorf("poll: %w", err)
		}

		// Check killability
		select {
		case <-p.done:
			return 0, ErrClosed
		default:
		}
		if n == 0 {
			return 0, nil
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			return 0, ErrClosed
		}
		if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
			return 0, nil
		}

		n, err = p.file.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return 0, ErrClosed
			}
			return 0, fmt.Errorf("%w: %w", ErrDeviceLost, err)
		}
		return n, nil
	}
}

// Write writes all of buf, waiting until the driver accepts it or the port is closed.
func (p *nativePort) Write(buf []byte) (int, error) {
	n, err := p.file.Write(buf)
	if err != nil {
		if errors.Is(err, os.ErrClosed) {
			return n, ErrClosed
		}
		return n, fmt.Errorf("%w: %w", ErrDeviceLost, err)
	}
	return n, nil
}

// Close closes the serial port and unblocks any pending Read.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *nativePort) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		// Wake up poll using self-pipe
		_, _ = unix.Write(p.pipeW, []byte{1})
		err = p.file.Close()
		_ = unix.Close(p.pipeR)
		_ = unix.Close(p.pipeW)
	})
	return err
}
