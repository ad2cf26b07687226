package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luhtfiimanal/go-serial-term/terminal"
)

// ErrInterrupted is the cancellation cause when the user presses Ctrl+C.
var ErrInterrupted = errors.New("interrupted by user")

const interruptNotice = "---------------------\nCTRL-C ... exiting\n---------------------"

// relayOutbound reads keys until ctx is done, sending each completed line to
// the device. Ctrl+C calls stop; whatever was typed on the current line is
// never sent.
func relayOutbound(ctx context.Context, ch Channel, keys KeySource, display *terminal.Display, timeout time.Duration, stop context.CancelCauseFunc) error {
	var line LineBuffer
	for ctx.Err() == nil {
		key, ok, err := keys.PollKey(timeout)
		if err != nil {
			return fmt.Errorf("outbound: %w", err)
		}
		if !ok || ctx.Err() != nil {
			continue
		}

		switch key {
		case terminal.KeyInterrupt:
			log.Debug().Int("discarded", line.Len()).Msg("interrupt, dropping partial line")
			line.Reset()
			display.Notice(interruptNotice)
			stop(ErrInterrupted)
		case terminal.KeyEnter:
			data, ok := line.Complete()
			if !ok {
				continue
			}
			if err := ch.Write(data); err != nil {
				if stopping(ctx, err) {
					return nil
				}
				return fmt.Errorf("outbound: %w", err)
			}
			display.Sent(data)
		default:
			line.Add(key)
		}
	}
	return nil
}
