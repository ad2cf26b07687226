// Package relay runs an interactive serial session: an inbound loop copying
// device output to the display, an outbound loop turning keypresses into
// lines for the device, and the controller that starts, stops and joins them.
//
// The two loops share one serial Channel without locks. Only the inbound loop
// reads, only the outbound loop writes, and only the controller closes, after
// both loops have been told to stop. Stopping is a context cancellation and
// never goes back.
package relay
