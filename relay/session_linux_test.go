//go:build linux

package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StalledDeviceWriteOnPTY(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	// The master is never read, so a long line fills the pty and the write stalls.
	ts := newTestSession(keysOf(strings.Repeat("x", 256<<10) + "\r"))
	ts.cfg.Port = slave.Name()
	ts.cfg.BaudRate = 115200
	ts.open = openSerial

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := ts.runAsync(ctx)

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session stuck on a stalled serial write")
	}
	assert.Equal(t, int32(1), ts.raw.restored.Load())
}
