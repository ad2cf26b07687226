// Package serial provides a minimal serial Channel for interactive terminals:
// bounded, non-blocking-aware reads and blocking writes over one open port.
//
// The package is tuned for a human typing at a device console. Data arrives in
// small bursts and must reach the screen promptly, and shutdown must never hang
// on a blocked read.
//
// Features:
//   - Raw syscall-based serial I/O on Linux, no buffering delays
//   - go.bug.st/serial backend on other platforms
//   - Reads bounded by a read timeout (default 100ms), never longer
//   - Streaming UTF-8 decoding; invalid bytes are replaced, never reported
//   - Exclusive open; a port held by another process reports ErrPortBusy
//   - Self-pipe mechanism for killability
//   - Idempotent Close, safe on a Channel that never opened
//   - Port enumeration via ListPorts
//   - PTY-based tests for reliability
//
// Every Open failure wraps ErrConnection. A device that disappears mid-session
// surfaces as ErrDeviceLost; use after Close surfaces as ErrClosed.
//
// Example usage:
//
//	ch, err := serial.Open(serial.Config{
//	    Device:   "/dev/ttyUSB0",
//	    BaudRate: 115200,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ch.Close()
//
//	// Drain incoming text in a goroutine
//	go func() {
//	    for {
//	        text, err := ch.ReadAvailable()
//	        if err != nil {
//	            return
//	        }
//	        fmt.Print(text)
//	    }
//	}()
//
//	// Send a command
//	if err := ch.Write([]byte("C,START\n")); err != nil {
//	    log.Println("Write failed:", err)
//	}
package serial
