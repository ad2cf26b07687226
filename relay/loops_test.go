package relay

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serial "github.com/luhtfiimanal/go-serial-term"
	"github.com/luhtfiimanal/go-serial-term/terminal"
)

func TestInbound_PassesTextThroughAndSleeps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := newFakeChannel()
	ch.incoming <- "pong\r\n"
	var out syncBuffer
	clock := clockwork.NewFakeClock()

	done := make(chan error, 1)
	go func() {
		done <- relayInbound(ctx, ch, terminal.NewDisplay(&out, false), clock, 100*time.Millisecond)
	}()

	// The loop parks on the clock after its first read.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, "pong\r\n", out.String())

	ch.incoming <- "more"
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, "pong\r\nmore", out.String())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("inbound loop did not stop")
	}
}

func TestInbound_ReadErrorEndsLoop(t *testing.T) {
	ch := newFakeChannel()
	ch.readErr = serial.ErrDeviceLost
	var out syncBuffer

	err := relayInbound(context.Background(), ch, terminal.NewDisplay(&out, false), clockwork.NewRealClock(), time.Millisecond)
	require.ErrorIs(t, err, serial.ErrDeviceLost)
	assert.Empty(t, out.String())
}

func TestInbound_ClosedAfterStopIsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := newFakeChannel()
	require.NoError(t, ch.Close())

	var out syncBuffer
	err := relayInbound(ctx, ch, terminal.NewDisplay(&out, false), clockwork.NewRealClock(), time.Millisecond)
	require.NoError(t, err)
}

// stoppingChannel cancels the session from inside a read that still returns text.
type stoppingChannel struct {
	*fakeChannel
	cancel context.CancelFunc
}

func (c stoppingChannel) ReadAvailable() (string, error) {
	c.cancel()
	return "late output", nil
}

func TestInbound_NoDisplayAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := stoppingChannel{fakeChannel: newFakeChannel(), cancel: cancel}

	var out syncBuffer
	err := relayInbound(ctx, ch, terminal.NewDisplay(&out, false), clockwork.NewRealClock(), time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func runOutbound(t *testing.T, keys string) (*fakeChannel, string, error) {
	t.Helper()
	ctx, stop := context.WithCancelCause(context.Background())
	defer stop(nil)

	ch := newFakeChannel()
	var out syncBuffer
	k := keysOf(keys + "\x03")

	err := relayOutbound(ctx, ch, k, terminal.NewDisplay(&out, false), time.Millisecond, stop)
	require.ErrorIs(t, context.Cause(ctx), ErrInterrupted)
	return ch, out.String(), err
}

func TestOutbound_SendsCompletedLine(t *testing.T) {
	ch, out, err := runOutbound(t, "hello\r")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello\n"}, ch.Writes())
	assert.Contains(t, out, ">> hello\n")
}

func TestOutbound_BareTerminatorIsNoop(t *testing.T) {
	ch, out, err := runOutbound(t, "\r\r\r")
	require.NoError(t, err)
	assert.Empty(t, ch.Writes())
	assert.NotContains(t, out, ">>")
}

func TestOutbound_InterruptDiscardsPartialLine(t *testing.T) {
	ch, out, err := runOutbound(t, "one\rtwo")
	require.NoError(t, err)
	assert.Equal(t, []string{"one\n"}, ch.Writes())
	assert.Contains(t, out, "CTRL-C ... exiting")
	assert.NotContains(t, out, "two")
}

func TestOutbound_NoWritesAfterInterrupt(t *testing.T) {
	ctx, stop := context.WithCancelCause(context.Background())
	defer stop(nil)

	ch := newFakeChannel()
	var out syncBuffer
	keys := keysOf("ab\x03cd\r")

	err := relayOutbound(ctx, ch, keys, terminal.NewDisplay(&out, false), time.Millisecond, stop)
	require.NoError(t, err)
	assert.Empty(t, ch.Writes())
	assert.Equal(t, "cd\r", string(keys.keys), "loop must stop polling once stopped")
}
