package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/luhtfiimanal/go-serial-term/terminal"
)

// relayInbound copies device output to the display until ctx is done.
// Text that arrives after cancellation is dropped.
func relayInbound(ctx context.Context, ch Channel, display *terminal.Display, clock clockwork.Clock, interval time.Duration) error {
	for ctx.Err() == nil {
		text, err := ch.ReadAvailable()
		if err != nil {
			if stopping(ctx, err) {
				return nil
			}
			return fmt.Errorf("inbound: %w", err)
		}
		if text != "" && ctx.Err() == nil {
			display.Received(text)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-clock.After(interval):
		}
	}
	return nil
}
