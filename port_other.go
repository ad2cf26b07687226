//go:build !linux

package serial

import (
	"errors"
	"fmt"
	"io/fs"

	bugst "go.bug.st/serial"
)

// bugstPort adapts a go.bug.st/serial port to the package error sentinels.
type bugstPort struct {
	bugst.Port
}

func openPort(cfg Config) (Port, error) {
	p, err := bugst.Open(cfg.Device, &bugst.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	})
	if err != nil {
		return nil, mapPortError(err)
	}
	return &bugstPort{Port: p}, nil
}

func (p *bugstPort) Read(buf []byte) (int, error) {
	n, err := p.Port.Read(buf)
	if err != nil {
		return n, mapIOError(err)
	}
	return n, nil
}

func (p *bugstPort) Write(buf []byte) (int, error) {
	n, err := p.Port.Write(buf)
	if err != nil {
		return n, mapIOError(err)
	}
	return n, nil
}

func mapPortError(err error) error {
	var pe *bugst.PortError
	if !errors.As(err, &pe) {
		return err
	}
	switch pe.Code() {
	case bugst.PortBusy:
		return fmt.Errorf("%w: %w", ErrPortBusy, err)
	case bugst.PortNotFound:
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	case bugst.InvalidSpeed:
		return fmt.Errorf("%w: %w", ErrUnsupportedBaud, err)
	case bugst.PermissionDenied:
		return fmt.Errorf("%w: %w", fs.ErrPermission, err)
	default:
		return err
	}
}

func mapIOError(err error) error {
	var pe *bugst.PortError
	if errors.As(err, &pe) && pe.Code() == bugst.PortClosed {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrDeviceLost, err)
}
