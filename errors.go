package serial

import "errors"

var (
	// ErrConnection wraps every failure to open a serial port.
	ErrConnection = errors.New("serial: connection failed")

	// ErrUnsupportedBaud is returned when the requested baud rate is not supported by the driver.
	ErrUnsupportedBaud = errors.New("serial: unsupported baud rate")

	// ErrPortBusy is returned when another process holds the port.
	ErrPortBusy = errors.New("serial: port is busy")

	// ErrClosed is returned by reads and writes on a closed Channel.
	ErrClosed = errors.New("serial: channel closed")

	// ErrDeviceLost is returned when the device disappears mid-session.
	ErrDeviceLost = errors.New("serial: device lost")
)
