// Command serterm is an interactive terminal for a serial port.
//
//	serterm /dev/ttyUSB0 115200
//	serterm list
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	serial "github.com/luhtfiimanal/go-serial-term"
	"github.com/luhtfiimanal/go-serial-term/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	code := run(ctx, os.Args[1:], app{
		runSession: func(ctx context.Context, cfg relay.Config) error {
			return relay.NewSession(cfg).Run(ctx)
		},
		listPorts: serial.ListPorts,
		out:       os.Stdout,
		errOut:    os.Stderr,
		color:     term.IsTerminal(int(os.Stdout.Fd())),
	})
	stop()
	os.Exit(code)
}
