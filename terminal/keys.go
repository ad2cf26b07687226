package terminal

import "errors"

const (
	// KeyInterrupt is Ctrl+C as delivered in raw mode.
	KeyInterrupt byte = 0x03

	// KeyEnter is the Return key as delivered in raw mode (ICRNL off).
	KeyEnter byte = '\r'
)

// ErrNotTerminal is returned when raw mode is requested on something that is not a tty.
var ErrNotTerminal = errors.New("not a terminal")
