// Package terminal owns the controlling terminal: a scoped raw-mode guard, a
// bounded single-key poller, and the Display the relay writes to.
//
// Raw mode here is input-only. Canonical line editing, echo and signal keys
// are switched off so Ctrl+C arrives as byte 0x03, but output processing is
// left on so lines written to the display still get their carriage return.
package terminal
