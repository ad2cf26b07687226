package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	serial "github.com/luhtfiimanal/go-serial-term"
	"github.com/luhtfiimanal/go-serial-term/relay"
	"github.com/luhtfiimanal/go-serial-term/terminal"
)

const usage = "Usage:\n  serterm <serial_port> <baudrate>"

var (
	errUsage = errors.New("usage")
	// errReported marks errors the session has already shown to the user.
	errReported = errors.New("reported")
)

// app holds everything the commands touch outside the process.
type app struct {
	runSession func(context.Context, relay.Config) error
	listPorts  func() ([]serial.PortInfo, error)
	out        io.Writer
	errOut     io.Writer
	color      bool
}

func newRootCmd(a app) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "serterm <serial_port> <baudrate>",
		Short: "Interactive serial port terminal",
		Long: `Open a serial port and relay it to this terminal.

Device output is printed as it arrives. Typed characters are buffered
until Enter and then sent as one line. Press Ctrl+C to exit.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(a.errOut, debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			baud, err := strconv.Atoi(args[1])
			if err != nil || baud <= 0 {
				return fmt.Errorf("%w: invalid baud rate %q", errUsage, args[1])
			}
			if err := a.runSession(cmd.Context(), relay.DefaultConfig(args[0], baud)); err != nil {
				return fmt.Errorf("%w: %w", errReported, err)
			}
			return nil
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log debug events to stderr")

	root.AddCommand(newListCmd(a))
	return root
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, a app) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		terminal.NewDisplay(a.out, a.color).Error(usage)
	case errors.Is(err, errReported):
	default:
		fmt.Fprintln(a.errOut, "Error:", err)
	}
	return 1
}
